package csource

import (
	"fmt"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment // text of a // or /* */ comment, markers removed

	// Literals
	TokenIdent   // const, uint8_t, ib_jul01_gp
	TokenInteger // 226, 0x9B00D5

	// Punctuators
	TokenStar      // *
	TokenComma     // ,
	TokenSemicolon // ;
	TokenEqual     // =
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLBrace    // {
	TokenRBrace    // }
	TokenOther     // any punctuator the scanner has no use for
)

// Token represents a lexical token within one line
type Token struct {
	Type    TokenType
	Literal string
	Offset  int // byte offset of the token start within the line
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%q...", t.Literal[:20])
	}
	return fmt.Sprintf("%q", t.Literal)
}

// Is reports whether the token is an identifier with the given spelling
func (t Token) Is(ident string) bool {
	return t.Type == TokenIdent && t.Literal == ident
}
