package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports the first syntax or structure problem in a document
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml: line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// Parser builds a tree of map[string]any from TOML source.
// Values are string, int64, float64, bool, []any and map[string]any;
// arrays of tables are []map[string]any.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
	root  map[string]any
	scope map[string]any

	// Tables opened by a [header], to reject a second header for the same path
	declared map[string]bool
}

func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer:    NewLexer(input),
		root:     make(map[string]any),
		declared: make(map[string]bool),
	}
	p.scope = p.root
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
	for p.peek.Type == TokenComment {
		p.peek = p.lexer.NextToken()
	}
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.cur.Line, Col: p.cur.Col, Msg: fmt.Sprintf(format, args...)}
}

// Parse consumes the whole document
func (p *Parser) Parse() (map[string]any, error) {
	for p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenNewline, TokenComment:
			p.next()
			continue
		case TokenLBracket:
			if err := p.parseHeader(); err != nil {
				return nil, err
			}
		case TokenError:
			return nil, p.errorf("%s", p.cur.Literal)
		default:
			if err := p.parseKeyValue(p.scope); err != nil {
				return nil, err
			}
		}
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) endOfStatement() error {
	switch p.cur.Type {
	case TokenNewline:
		p.next()
		return nil
	case TokenEOF, TokenComment:
		return nil
	}
	return p.errorf("expected end of line, got %s", p.cur)
}

// parseHeader handles [a.b] and [[a.b]]
func (p *Parser) parseHeader() error {
	array := p.peek.Type == TokenLBracket
	p.next()
	if array {
		p.next()
	}

	keys, err := p.parseKey()
	if err != nil {
		return err
	}

	for i := 0; i < 1+btoi(array); i++ {
		if p.cur.Type != TokenRBracket {
			return p.errorf("expected ] after table name, got %s", p.cur)
		}
		p.next()
	}

	if array {
		return p.openArrayTable(keys)
	}
	return p.openTable(keys)
}

func (p *Parser) openTable(keys []string) error {
	path := strings.Join(keys, ".")
	if p.declared[path] {
		return p.errorf("table [%s] defined twice", path)
	}
	t, err := p.walk(p.root, keys)
	if err != nil {
		return err
	}
	p.declared[path] = true
	p.scope = t
	return nil
}

func (p *Parser) openArrayTable(keys []string) error {
	parent, err := p.walk(p.root, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]

	var tables []map[string]any
	if existing, ok := parent[last]; ok {
		tables, ok = existing.([]map[string]any)
		if !ok {
			return p.errorf("%s is not an array of tables", last)
		}
	}
	t := make(map[string]any)
	parent[last] = append(tables, t)
	p.scope = t
	return nil
}

// walk descends through keys creating tables as needed; an array of tables resolves to its last element
func (p *Parser) walk(from map[string]any, keys []string) (map[string]any, error) {
	cur := from
	for _, k := range keys {
		switch v := cur[k].(type) {
		case nil:
			t := make(map[string]any)
			cur[k] = t
			cur = t
		case map[string]any:
			cur = v
		case []map[string]any:
			if len(v) == 0 {
				return nil, p.errorf("%s is an empty array of tables", k)
			}
			cur = v[len(v)-1]
		default:
			return nil, p.errorf("%s is a value, not a table", k)
		}
	}
	return cur, nil
}

func (p *Parser) parseKeyValue(scope map[string]any) error {
	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.cur.Type != TokenEqual {
		return p.errorf("expected = after key, got %s", p.cur)
	}
	p.next()

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	parent, err := p.walk(scope, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	if _, exists := parent[last]; exists {
		return p.errorf("duplicate key %q", last)
	}
	parent[last] = val
	return nil
}

// parseKey reads a possibly dotted key; digits and booleans are valid bare keys
func (p *Parser) parseKey() ([]string, error) {
	var keys []string
	for {
		switch p.cur.Type {
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			keys = append(keys, p.cur.Literal)
		default:
			return nil, p.errorf("expected key, got %s", p.cur)
		}
		p.next()
		if p.cur.Type != TokenDot {
			return keys, nil
		}
		p.next()
	}
}

func (p *Parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.Type {
	case TokenString:
		p.next()
		return tok.Literal, nil
	case TokenInteger:
		v, err := strconv.ParseInt(strings.ReplaceAll(tok.Literal, "_", ""), 0, 64)
		if err != nil {
			return nil, p.errorf("integer %s: %v", tok.Literal, err)
		}
		p.next()
		return v, nil
	case TokenFloat:
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf("float %s: %v", tok.Literal, err)
		}
		p.next()
		return v, nil
	case TokenBool:
		p.next()
		return tok.Literal == "true", nil
	case TokenLBracket:
		return p.parseArray()
	case TokenLBrace:
		return p.parseInlineTable()
	case TokenError:
		return nil, p.errorf("%s", tok.Literal)
	}
	return nil, p.errorf("expected value, got %s", tok)
}

func (p *Parser) skipNewlines() {
	for p.cur.Type == TokenNewline || p.cur.Type == TokenComment {
		p.next()
	}
}

func (p *Parser) parseArray() ([]any, error) {
	p.next()
	arr := make([]any, 0)
	for {
		p.skipNewlines()
		if p.cur.Type == TokenRBracket {
			p.next()
			return arr, nil
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		p.skipNewlines()
		switch p.cur.Type {
		case TokenComma:
			p.next()
		case TokenRBracket:
		default:
			return nil, p.errorf("expected , or ] in array, got %s", p.cur)
		}
	}
}

func (p *Parser) parseInlineTable() (map[string]any, error) {
	p.next()
	t := make(map[string]any)
	if p.cur.Type == TokenRBrace {
		p.next()
		return t, nil
	}
	for {
		if err := p.parseKeyValue(t); err != nil {
			return nil, err
		}
		switch p.cur.Type {
		case TokenComma:
			p.next()
		case TokenRBrace:
			p.next()
			return t, nil
		default:
			return nil, p.errorf("expected , or } in inline table, got %s", p.cur)
		}
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
