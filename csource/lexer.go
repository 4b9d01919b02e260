package csource

import (
	"strings"
)

// Lexer splits a single source line into tokens
// It understands only what the declaration matchers need: identifiers,
// integers, comments and a handful of punctuators
type Lexer struct {
	input string
	pos   int // current position in input
}

func NewLexer(line string) *Lexer {
	return &Lexer{input: line}
}

// NextToken returns the next token in the line
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Offset: l.pos}
	}

	start := l.pos
	ch := l.peek()

	// Comments run to end of line, block comments to their closing marker
	if ch == '/' && l.peekAt(1) == '/' {
		return l.readLineComment()
	}
	if ch == '/' && l.peekAt(1) == '*' {
		return l.readBlockComment()
	}

	switch ch {
	case '*':
		l.advance()
		return l.newToken(TokenStar, start)
	case ',':
		l.advance()
		return l.newToken(TokenComma, start)
	case ';':
		l.advance()
		return l.newToken(TokenSemicolon, start)
	case '=':
		l.advance()
		return l.newToken(TokenEqual, start)
	case '[':
		l.advance()
		return l.newToken(TokenLBracket, start)
	case ']':
		l.advance()
		return l.newToken(TokenRBracket, start)
	case '{':
		l.advance()
		return l.newToken(TokenLBrace, start)
	case '}':
		l.advance()
		return l.newToken(TokenRBrace, start)
	}

	if isDigit(ch) {
		return l.readNumber()
	}

	if isAlpha(ch) || ch == '_' {
		return l.readIdent()
	}

	l.advance()
	return l.newToken(TokenOther, start)
}

// Tokenize lexes the whole line, EOF excluded
func Tokenize(line string) []Token {
	l := NewLexer(line)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Code returns the tokens of a line with comments removed
func Code(line string) []Token {
	var code []Token
	for _, tok := range Tokenize(line) {
		if tok.Type != TokenComment {
			code = append(code, tok)
		}
	}
	return code
}

func (l *Lexer) newToken(typ TokenType, start int) Token {
	return Token{Type: typ, Literal: l.input[start:l.pos], Offset: start}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	return ch
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) readLineComment() Token {
	start := l.pos
	l.pos = len(l.input)
	return Token{Type: TokenComment, Literal: strings.TrimSpace(l.input[start+2:]), Offset: start}
}

func (l *Lexer) readBlockComment() Token {
	start := l.pos
	end := strings.Index(l.input[start+2:], "*/")
	if end < 0 {
		// Unclosed on this line: treat the rest of the line as comment
		l.pos = len(l.input)
		return Token{Type: TokenComment, Literal: strings.TrimSpace(l.input[start+2:]), Offset: start}
	}
	l.pos = start + 2 + end + 2
	return Token{Type: TokenComment, Literal: strings.TrimSpace(l.input[start+2 : start+2+end]), Offset: start}
}

func (l *Lexer) readNumber() Token {
	start := l.pos
	// Hex literals and integer suffixes (0x9B, 12u) stay inside one token
	for l.pos < len(l.input) {
		ch := l.peek()
		if isDigit(ch) || isAlpha(ch) {
			l.advance()
		} else {
			break
		}
	}
	return l.newToken(TokenInteger, start)
}

func (l *Lexer) readIdent() Token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if isAlpha(ch) || isDigit(ch) || ch == '_' {
			l.advance()
		} else {
			break
		}
	}
	return l.newToken(TokenIdent, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
