package condition

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer splits a condition expression into tokens
type Lexer struct {
	input string
	pos   int // current position in input (points to current char)
	start int // start position of this token
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.start = l.pos

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.newToken(TokenLParen, "(")
	case ')':
		l.advance()
		return l.newToken(TokenRParen, ")")
	case '+':
		l.advance()
		return l.newToken(TokenPlus, "+")
	case '-':
		l.advance()
		return l.newToken(TokenMinus, "-")
	case '*':
		l.advance()
		return l.newToken(TokenStar, "*")
	case '/':
		l.advance()
		return l.newToken(TokenSlash, "/")
	case '%':
		l.advance()
		return l.newToken(TokenPercent, "%")
	case '&':
		return l.readPair('&', TokenAnd)
	case '|':
		return l.readPair('|', TokenOr)
	case '=':
		return l.readEquality()
	case '!':
		return l.readBang()
	case '<':
		return l.readRelational(TokenLT, TokenLTE)
	case '>':
		return l.readRelational(TokenGT, TokenGTE)
	}

	if isDigit(ch) || ch == '.' {
		return l.readNumber()
	}

	if isIdentStart(ch) {
		return l.readIdent()
	}

	l.advance()
	return l.newToken(TokenError, fmt.Sprintf("unexpected character %q", ch))
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Pos: l.start}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// readPair reads a doubled operator such as && or ||; a single one is an error
func (l *Lexer) readPair(ch rune, typ TokenType) Token {
	l.advance()
	if l.peek() != ch {
		return l.newToken(TokenError, fmt.Sprintf("expected %c%c", ch, ch))
	}
	l.advance()
	return l.newToken(typ, l.input[l.start:l.pos])
}

// readEquality accepts == and ===; a lone = is assignment and is rejected
func (l *Lexer) readEquality() Token {
	l.advance()
	if l.peek() != '=' {
		return l.newToken(TokenError, "assignment is not allowed")
	}
	l.advance()
	if l.peek() == '=' {
		l.advance()
	}
	return l.newToken(TokenEq, l.input[l.start:l.pos])
}

// readBang distinguishes !, != and !==
func (l *Lexer) readBang() Token {
	l.advance()
	if l.peek() != '=' {
		return l.newToken(TokenNot, "!")
	}
	l.advance()
	if l.peek() == '=' {
		l.advance()
	}
	return l.newToken(TokenNotEq, l.input[l.start:l.pos])
}

func (l *Lexer) readRelational(strict, orEqual TokenType) Token {
	l.advance()
	if l.peek() == '=' {
		l.advance()
		return l.newToken(orEqual, l.input[l.start:l.pos])
	}
	return l.newToken(strict, l.input[l.start:l.pos])
}

func (l *Lexer) readNumber() Token {
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		l.advance()
	}
	lit := l.input[l.start:l.pos]
	if lit == "." {
		return l.newToken(TokenError, "malformed number")
	}
	// 3abc is neither a number nor an identifier
	if isIdentStart(l.peek()) {
		return l.newToken(TokenError, fmt.Sprintf("malformed number %q", lit+string(l.peek())))
	}
	return l.newToken(TokenNumber, lit)
}

func (l *Lexer) readIdent() Token {
	for l.pos < len(l.input) {
		ch := l.peek()
		if !isIdentStart(ch) && !isDigit(ch) {
			break
		}
		l.advance()
	}
	lit := l.input[l.start:l.pos]
	switch lit {
	case "true":
		return l.newToken(TokenTrue, lit)
	case "false":
		return l.newToken(TokenFalse, lit)
	}
	return l.newToken(TokenIdent, lit)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
