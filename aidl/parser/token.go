package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenHexLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenAnnotation
	TokenTrue
	TokenFalse

	// Keywords
	TokenPackage
	TokenImport
	TokenParcelable
	TokenInterface
	TokenOneway
	TokenIn
	TokenOut
	TokenInout
	TokenConst
	TokenCppHeader

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenLT
	TokenGT
	TokenAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenHexLiteral:    "HexLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenAnnotation:    "Annotation",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenPackage:       "package",
	TokenImport:        "import",
	TokenParcelable:    "parcelable",
	TokenInterface:     "interface",
	TokenOneway:        "oneway",
	TokenIn:            "in",
	TokenOut:           "out",
	TokenInout:         "inout",
	TokenConst:         "const",
	TokenCppHeader:     "cpp_header",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenAssign:        "=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var keywords = map[string]TokenKind{
	"package":    TokenPackage,
	"import":     TokenImport,
	"parcelable": TokenParcelable,
	"interface":  TokenInterface,
	"oneway":     TokenOneway,
	"in":         TokenIn,
	"out":        TokenOut,
	"inout":      TokenInout,
	"const":      TokenConst,
	"cpp_header": TokenCppHeader,
	"true":       TokenTrue,
	"false":      TokenFalse,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
