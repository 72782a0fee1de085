package toml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer splits TOML source into tokens, one line-oriented statement at a time
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// NextToken returns the next token; TokenEOF repeats once input is exhausted
func (l *Lexer) NextToken() Token {
	l.skipBlank()

	if l.pos >= len(l.input) {
		return l.token(TokenEOF, "")
	}

	line, col := l.line, l.col
	ch := l.peek()
	switch ch {
	case '\n':
		l.advance()
		return Token{Type: TokenNewline, Literal: "\n", Line: line, Col: col}
	case '#':
		return l.readComment()
	case '"':
		return l.readBasicString()
	case '\'':
		return l.readLiteralString()
	}

	if typ, ok := punctuation[ch]; ok {
		l.advance()
		return Token{Type: typ, Literal: string(ch), Line: line, Col: col}
	}

	if isBareChar(ch) || ch == '+' {
		return l.readBare()
	}

	l.advance()
	return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character %q", ch), Line: line, Col: col}
}

var punctuation = map[rune]TokenType{
	'=': TokenEqual,
	'.': TokenDot,
	',': TokenComma,
	'[': TokenLBracket,
	']': TokenRBracket,
	'{': TokenLBrace,
	'}': TokenRBrace,
}

func (l *Lexer) token(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.line, Col: l.col}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readComment() Token {
	line, col := l.line, l.col
	l.advance()
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return Token{Type: TokenComment, Literal: string(l.input[start:l.pos]), Line: line, Col: col}
}

func (l *Lexer) readBasicString() Token {
	line, col := l.line, l.col
	l.advance()

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '\n':
			return Token{Type: TokenError, Literal: "newline in string", Line: line, Col: col}
		case '"':
			return Token{Type: TokenString, Literal: sb.String(), Line: line, Col: col}
		case '\\':
			r, err := l.readEscape()
			if err != nil {
				return Token{Type: TokenError, Literal: err.Error(), Line: line, Col: col}
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(ch)
		}
	}
	return Token{Type: TokenError, Literal: "unterminated string", Line: line, Col: col}
}

func (l *Lexer) readEscape() (rune, error) {
	ch := l.advance()
	switch ch {
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case 'u':
		return l.readHex(4)
	case 'U':
		return l.readHex(8)
	}
	return 0, fmt.Errorf("invalid escape \\%c", ch)
}

func (l *Lexer) readHex(n int) (rune, error) {
	if l.pos+n > len(l.input) {
		return 0, fmt.Errorf("short unicode escape")
	}
	digits := string(l.input[l.pos : l.pos+n])
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, fmt.Errorf("invalid unicode escape %q", digits)
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return rune(v), nil
}

// readLiteralString reads '...' with no escape processing
func (l *Lexer) readLiteralString() Token {
	line, col := l.line, l.col
	l.advance()
	start := l.pos
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\n':
			return Token{Type: TokenError, Literal: "newline in string", Line: line, Col: col}
		case '\'':
			lit := string(l.input[start:l.pos])
			l.advance()
			return Token{Type: TokenString, Literal: lit, Line: line, Col: col}
		}
		l.advance()
	}
	return Token{Type: TokenError, Literal: "unterminated string", Line: line, Col: col}
}

// readBare reads a bare key, number or boolean.
// '.' only continues a token that started as a number, so a.b stays a dotted key.
func (l *Lexer) readBare() Token {
	line, col := l.line, l.col
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'

	for l.pos < len(l.input) {
		ch := l.peek()
		if isBareChar(ch) || ch == '+' || (ch == '.' && numeric) {
			l.advance()
			continue
		}
		break
	}
	lit := string(l.input[start:l.pos])
	tok := Token{Literal: lit, Line: line, Col: col}

	switch {
	case lit == "true" || lit == "false":
		tok.Type = TokenBool
	case isInteger(lit):
		tok.Type = TokenInteger
	case isFloat(lit):
		tok.Type = TokenFloat
	default:
		tok.Type = TokenIdent
	}
	return tok
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, 64)
	return err == nil
}

func isFloat(s string) bool {
	if !strings.ContainsAny(s, ".eE") {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	return err == nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBareChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' || r == '-'
}
