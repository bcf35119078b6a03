package parser

import (
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	lexer           *Lexer
	tokens          []Token
	comments        []Token
	pos             int
	err             error
}

func ParseDocument(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Err returns the error encountered while reading the input, if any.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the whole input. The returned tree contains error nodes for
// every malformed construct; it is nil only when the input could not be read.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		p.err = err
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.tokenize()
	return p.parseDocument()
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.err = nil
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// recoverTo skips tokens until one of kinds is next. A semicolon in kinds is
// consumed so that parsing resumes at the following declaration.
func (p *Parser) recoverTo(kinds []TokenKind) {
	if len(kinds) == 0 {
		if !p.check(TokenEOF) {
			p.advance()
		}
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				if kind == TokenSemicolon {
					p.advance()
				}
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) expectNode(kind TokenKind, context string, recoverTo []TokenKind) *Node {
	if p.expect(kind) != nil {
		return nil
	}
	return p.errorNode("expected "+kind.String()+" "+context+", got "+describe(p.peek()), recoverTo, kind)
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of file"
	}
	return "'" + tok.Literal + "'"
}

var declRecovery = []TokenKind{TokenSemicolon, TokenRBrace}

var topLevelRecovery = []TokenKind{
	TokenSemicolon, TokenImport, TokenInterface, TokenParcelable, TokenOneway, TokenAnnotation,
}

func (p *Parser) parseDocument() *Node {
	node := p.startNode(KindDocument)

	if p.check(TokenPackage) {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		progressed := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseTypeDecl())
		if !progressed() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	p.advance()
	node.AddChild(p.parseQualifiedName())
	node.AddChild(p.expectNode(TokenSemicolon, "after package declaration", topLevelRecovery))
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.advance()
	node.AddChild(p.parseQualifiedName())
	node.AddChild(p.expectNode(TokenSemicolon, "after import", topLevelRecovery))
	return p.finishNode(node)
}

// parseQualifiedName reads ident ('.' ident)* into a single node whose token
// carries the dotted name.
func (p *Parser) parseQualifiedName() *Node {
	first := p.expect(TokenIdent)
	if first == nil {
		return p.errorNode("expected identifier, got "+describe(p.peek()), declRecovery, TokenIdent)
	}
	parts := []string{first.Literal}
	span := first.Span
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		ident := p.advance()
		parts = append(parts, ident.Literal)
		span.End = ident.Span.End
	}
	tok := Token{Kind: TokenIdent, Span: span, Literal: strings.Join(parts, ".")}
	return &Node{Kind: KindQualifiedName, Span: span, Token: &tok}
}

func (p *Parser) parseAnnotations() []*Node {
	var result []*Node
	for p.check(TokenAnnotation) {
		tok := p.advance()
		result = append(result, &Node{Kind: KindAnnotation, Span: tok.Span, Token: &tok})
	}
	return result
}

func (p *Parser) parseTypeDecl() *Node {
	start := p.peek().Span.Start
	annotations := p.parseAnnotations()

	var node *Node
	switch {
	case p.check(TokenOneway) || p.check(TokenInterface):
		node = p.parseInterfaceDecl()
	case p.check(TokenParcelable):
		node = p.parseParcelableDecl()
	default:
		bad := p.advance()
		p.recoverTo(topLevelRecovery)
		return &Node{
			Kind: KindError,
			Span: bad.Span,
			Error: &Error{
				Message:  "expected interface or parcelable declaration, got " + describe(bad),
				Expected: []TokenKind{TokenInterface, TokenParcelable},
				Got:      &bad,
			},
		}
	}
	node.Span.Start = start
	node.Children = append(annotations, node.Children...)
	return node
}

func (p *Parser) parseInterfaceDecl() *Node {
	node := p.startNode(KindInterfaceDecl)
	if tok := p.expect(TokenOneway); tok != nil {
		node.AddChild(&Node{Kind: KindOneway, Span: tok.Span, Token: tok})
	}
	if err := p.expectNode(TokenInterface, "", declRecovery); err != nil {
		node.AddChild(err)
		return p.finishNode(node)
	}
	name := p.expect(TokenIdent)
	if name == nil {
		node.AddChild(p.errorNode("expected interface name, got "+describe(p.peek()), declRecovery, TokenIdent))
		return p.finishNode(node)
	}
	node.Token = name
	if err := p.expectNode(TokenLBrace, "to open interface body", declRecovery); err != nil {
		node.AddChild(err)
		return p.finishNode(node)
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progressed := p.mustProgress()
		if p.check(TokenConst) {
			node.AddChild(p.parseConstantDecl())
		} else {
			node.AddChild(p.parseMethodDecl())
		}
		if !progressed() {
			break
		}
	}
	node.AddChild(p.expectNode(TokenRBrace, "to close interface body", nil))
	return p.finishNode(node)
}

func (p *Parser) parseParcelableDecl() *Node {
	start := p.peek().Span.Start
	p.advance()

	if p.check(TokenIdent) && p.peekN(1).Kind == TokenLBrace {
		node := &Node{Kind: KindStructuredParcelableDecl, Span: Span{Start: start}}
		name := p.advance()
		node.Token = &name
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			progressed := p.mustProgress()
			node.AddChild(p.parseFieldDecl())
			if !progressed() {
				break
			}
		}
		node.AddChild(p.expectNode(TokenRBrace, "to close parcelable body", nil))
		return p.finishNode(node)
	}

	node := &Node{Kind: KindParcelableDecl, Span: Span{Start: start}}
	name := p.parseQualifiedName()
	node.AddChild(name)
	if name.IsError() {
		return p.finishNode(node)
	}
	if p.check(TokenCppHeader) {
		header := p.startNode(KindCppHeader)
		p.advance()
		if tok := p.expect(TokenStringLiteral); tok != nil {
			header.Token = tok
			node.AddChild(p.finishNode(header))
		} else {
			node.AddChild(p.errorNode("expected header path after cpp_header, got "+describe(p.peek()),
				declRecovery, TokenStringLiteral))
			return p.finishNode(node)
		}
	}
	node.AddChild(p.expectNode(TokenSemicolon, "after parcelable declaration", declRecovery))
	return p.finishNode(node)
}

func (p *Parser) parseFieldDecl() *Node {
	node := p.startNode(KindFieldDecl)
	typ := p.parseType()
	node.AddChild(typ)
	if typ.IsError() {
		return p.finishNode(node)
	}
	name := p.expect(TokenIdent)
	if name == nil {
		node.AddChild(p.errorNode("expected field name, got "+describe(p.peek()), declRecovery, TokenIdent))
		return p.finishNode(node)
	}
	node.Token = name
	if p.expect(TokenAssign) != nil {
		node.AddChild(p.parseConstantValue())
	}
	node.AddChild(p.expectNode(TokenSemicolon, "after field declaration", declRecovery))
	return p.finishNode(node)
}

func (p *Parser) parseConstantDecl() *Node {
	node := p.startNode(KindConstantDecl)
	p.advance()
	typ := p.parseType()
	node.AddChild(typ)
	if typ.IsError() {
		return p.finishNode(node)
	}
	name := p.expect(TokenIdent)
	if name == nil {
		node.AddChild(p.errorNode("expected constant name, got "+describe(p.peek()), declRecovery, TokenIdent))
		return p.finishNode(node)
	}
	node.Token = name
	if err := p.expectNode(TokenAssign, "in constant declaration", declRecovery); err != nil {
		node.AddChild(err)
		return p.finishNode(node)
	}
	node.AddChild(p.parseConstantValue())
	node.AddChild(p.expectNode(TokenSemicolon, "after constant declaration", declRecovery))
	return p.finishNode(node)
}

func (p *Parser) parseMethodDecl() *Node {
	node := p.startNode(KindMethodDecl)
	if tok := p.expect(TokenOneway); tok != nil {
		node.AddChild(&Node{Kind: KindOneway, Span: tok.Span, Token: tok})
	}
	typ := p.parseType()
	node.AddChild(typ)
	if typ.IsError() {
		return p.finishNode(node)
	}
	name := p.expect(TokenIdent)
	if name == nil {
		node.AddChild(p.errorNode("expected method name, got "+describe(p.peek()), declRecovery, TokenIdent))
		return p.finishNode(node)
	}
	node.Token = name

	args := p.parseArguments()
	node.AddChild(args)
	if args.IsError() {
		return p.finishNode(node)
	}

	if p.expect(TokenAssign) != nil {
		tok := p.expect(TokenIntLiteral)
		if tok == nil {
			node.AddChild(p.errorNode("expected method id, got "+describe(p.peek()), declRecovery, TokenIntLiteral))
			return p.finishNode(node)
		}
		node.AddChild(&Node{Kind: KindMethodID, Span: tok.Span, Token: tok})
	}
	node.AddChild(p.expectNode(TokenSemicolon, "after method declaration", declRecovery))
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	if err := p.expectNode(TokenLParen, "to open argument list", declRecovery); err != nil {
		return err
	}
	if p.expect(TokenRParen) != nil {
		return p.finishNode(node)
	}
	for {
		arg := p.parseArgument()
		if arg.IsError() {
			return arg
		}
		node.AddChild(arg)
		if p.expect(TokenComma) != nil {
			continue
		}
		if p.expect(TokenRParen) != nil {
			return p.finishNode(node)
		}
		return p.errorNode("expected ',' or ')' in argument list, got "+describe(p.peek()),
			declRecovery, TokenComma, TokenRParen)
	}
}

func (p *Parser) parseArgument() *Node {
	node := p.startNode(KindArgument)
	if p.match(TokenIn, TokenOut, TokenInout) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindDirection, Span: tok.Span, Token: &tok})
	}
	typ := p.parseType()
	if typ.IsError() {
		return typ
	}
	node.AddChild(typ)
	name := p.expect(TokenIdent)
	if name == nil {
		return p.errorNode("expected argument name, got "+describe(p.peek()), declRecovery, TokenIdent)
	}
	node.Token = name
	return p.finishNode(node)
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	for _, a := range p.parseAnnotations() {
		node.AddChild(a)
	}
	name := p.parseQualifiedName()
	if name.IsError() {
		return name
	}
	node.AddChild(name)

	if p.check(TokenLT) {
		args := p.startNode(KindTypeArguments)
		p.advance()
		for {
			param := p.parseType()
			if param.IsError() {
				return param
			}
			args.AddChild(param)
			if p.expect(TokenComma) != nil {
				continue
			}
			if p.expect(TokenGT) != nil {
				break
			}
			return p.errorNode("expected ',' or '>' in type arguments, got "+describe(p.peek()),
				declRecovery, TokenComma, TokenGT)
		}
		node.AddChild(p.finishNode(args))
	}

	if p.check(TokenLBracket) {
		dims := p.startNode(KindArrayDims)
		p.advance()
		if err := p.expectNode(TokenRBracket, "to close array type", declRecovery); err != nil {
			return err
		}
		node.AddChild(p.finishNode(dims))
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstantValue() *Node {
	switch p.peek().Kind {
	case TokenTrue, TokenFalse, TokenIntLiteral, TokenHexLiteral, TokenFloatLiteral,
		TokenCharLiteral, TokenStringLiteral:
		tok := p.advance()
		return &Node{Kind: KindLiteral, Span: tok.Span, Token: &tok}
	case TokenLBrace:
		node := p.startNode(KindArrayLiteral)
		p.advance()
		if p.expect(TokenRBrace) != nil {
			return p.finishNode(node)
		}
		for {
			value := p.parseConstantValue()
			if value.IsError() {
				return value
			}
			node.AddChild(value)
			if p.expect(TokenComma) != nil {
				// trailing comma
				if p.expect(TokenRBrace) != nil {
					return p.finishNode(node)
				}
				continue
			}
			if p.expect(TokenRBrace) != nil {
				return p.finishNode(node)
			}
			return p.errorNode("expected ',' or '}' in array literal, got "+describe(p.peek()),
				declRecovery, TokenComma, TokenRBrace)
		}
	}
	return p.errorNode("expected constant value, got "+describe(p.peek()), declRecovery)
}
