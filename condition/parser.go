package condition

import (
	"fmt"
	"strconv"
)

// maxDepth bounds nesting so a hostile expression cannot exhaust the stack
const maxDepth = 64

// Binding power, lowest first
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
)

var infixPrecedence = map[TokenType]int{
	TokenOr:      precOr,
	TokenAnd:     precAnd,
	TokenEq:      precEquality,
	TokenNotEq:   precEquality,
	TokenLT:      precRelational,
	TokenLTE:     precRelational,
	TokenGT:      precRelational,
	TokenGTE:     precRelational,
	TokenPlus:    precAdditive,
	TokenMinus:   precAdditive,
	TokenStar:    precMultiplicative,
	TokenSlash:   precMultiplicative,
	TokenPercent: precMultiplicative,
}

// Parser builds an expression tree by precedence climbing
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	depth     int
}

func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// Parse consumes the whole input and returns the root node
func (p *Parser) Parse() (Node, error) {
	root, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != TokenEOF {
		return nil, p.unexpected()
	}
	return root, nil
}

func (p *Parser) parseExpression(prec int) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrSyntax, maxDepth)
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		bp, ok := infixPrecedence[p.curToken.Type]
		if !ok || bp <= prec {
			return left, nil
		}
		op := p.curToken.Type
		p.nextToken()

		right, err := p.parseExpression(bp)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *Parser) parsePrefix() (Node, error) {
	tok := p.curToken

	switch tok.Type {
	case TokenNumber:
		p.nextToken()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q at %d", ErrSyntax, tok.Literal, tok.Pos)
		}
		return numberNode(v), nil

	case TokenTrue:
		p.nextToken()
		return numberNode(1), nil

	case TokenFalse:
		p.nextToken()
		return numberNode(0), nil

	case TokenIdent:
		p.nextToken()
		return identNode(tok.Literal), nil

	case TokenLParen:
		p.nextToken()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != TokenRParen {
			return nil, fmt.Errorf("%w: expected ) at %d, got %s", ErrSyntax, p.curToken.Pos, p.curToken)
		}
		p.nextToken()
		return inner, nil

	case TokenNot, TokenMinus, TokenPlus:
		p.nextToken()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.Type, operand: operand}, nil
	}

	return nil, p.unexpected()
}

func (p *Parser) unexpected() error {
	if p.curToken.Type == TokenError {
		return fmt.Errorf("%w: %s at %d", ErrSyntax, p.curToken.Literal, p.curToken.Pos)
	}
	return fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, p.curToken, p.curToken.Pos)
}
