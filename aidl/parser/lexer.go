package parser

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if isLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	// A sign only belongs to a literal when a digit follows it directly.
	if (ch == '-' || ch == '+') && isDigit(l.peekN(1)) {
		l.advance()
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		return l.scanCharLiteral(startPos)
	case '"':
		return l.scanStringLiteral(startPos)
	case '@':
		return l.scanAnnotation(startPos)
	}

	return l.scanPunctuation(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			// unterminated
			return l.token(TokenError, start)
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

// scanNumber reads decimal, hexadecimal and floating literals. A leading sign
// has already been consumed by the caller.
func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') && l.pos == start.Offset {
		return l.scanHexNumber(start)
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		isFloat = true
		l.advanceN(2)
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if isFloat && l.peek() == 'f' {
		l.advance()
	}

	if isLetterOrDigit(l.peek()) {
		for isLetterOrDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenError, start)
	}

	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanHexNumber(start Position) Token {
	l.advanceN(2)
	digits := 0
	for isHexDigit(l.peek()) {
		l.advance()
		digits++
	}
	if digits == 0 || isLetterOrDigit(l.peek()) {
		for isLetterOrDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenError, start)
	}
	return l.token(TokenHexLiteral, start)
}

func (l *Lexer) scanCharLiteral(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '\'' && l.peek() != '\n' {
		l.advance()
	}
	if l.peek() != '\'' {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenCharLiteral, start)
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '"' && l.peek() != '\n' {
		l.advance()
	}
	if l.peek() != '"' {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanAnnotation(start Position) Token {
	l.advance()
	if !isLetter(l.peek()) {
		return l.token(TokenError, start)
	}
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	return l.token(TokenAnnotation, start)
}

func (l *Lexer) scanPunctuation(start Position) Token {
	ch := l.advance()
	switch ch {
	case '(':
		return l.token(TokenLParen, start)
	case ')':
		return l.token(TokenRParen, start)
	case '{':
		return l.token(TokenLBrace, start)
	case '}':
		return l.token(TokenRBrace, start)
	case '[':
		return l.token(TokenLBracket, start)
	case ']':
		return l.token(TokenRBracket, start)
	case ';':
		return l.token(TokenSemicolon, start)
	case ',':
		return l.token(TokenComma, start)
	case '.':
		return l.token(TokenDot, start)
	case '<':
		return l.token(TokenLT, start)
	case '>':
		return l.token(TokenGT, start)
	case '=':
		return l.token(TokenAssign, start)
	}
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
