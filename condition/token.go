package condition

import "fmt"

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF

	// Literals
	TokenIdent  // idealism
	TokenNumber // 3, 1.5
	TokenTrue   // true
	TokenFalse  // false

	// Delimiters
	TokenLParen // (
	TokenRParen // )

	// Logical
	TokenNot // !
	TokenAnd // &&
	TokenOr  // ||

	// Comparison
	TokenEq    // == or ===
	TokenNotEq // != or !==
	TokenLT    // <
	TokenLTE   // <=
	TokenGT    // >
	TokenGTE   // >=

	// Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the expression
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of expression"
	case TokenError:
		return fmt.Sprintf("error(%s)", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}
