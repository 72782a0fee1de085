package toml

import (
	"fmt"
)

// TokenType classifies a lexical token
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF
	TokenComment

	TokenIdent   // bare key
	TokenString  // "basic" or 'literal'
	TokenInteger // 123
	TokenFloat   // 1.5
	TokenBool    // true/false

	TokenEqual    // =
	TokenDot      // .
	TokenComma    // ,
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
	TokenNewline  // \n
)

// Token is one lexeme with its source position
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of file"
	case TokenError:
		return fmt.Sprintf("error(%s)", t.Literal)
	case TokenNewline:
		return "newline"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%q...", t.Literal[:20])
	}
	return fmt.Sprintf("%q", t.Literal)
}
