package condition

import (
	"fmt"
	"math"
	"strconv"
)

// Node is an evaluable expression tree node
// Booleans are carried as 1/0 and any non-zero value is truthy
type Node interface {
	Eval(vars Vars) (float64, error)
	String() string
}

type numberNode float64

func (n numberNode) Eval(Vars) (float64, error) { return float64(n), nil }

func (n numberNode) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

type identNode string

func (n identNode) Eval(vars Vars) (float64, error) {
	v, ok := vars[string(n)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownIdentifier, string(n))
	}
	return v, nil
}

func (n identNode) String() string { return string(n) }

type unaryNode struct {
	op      TokenType
	operand Node
}

func (n *unaryNode) Eval(vars Vars) (float64, error) {
	v, err := n.operand.Eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case TokenNot:
		return boolValue(v == 0), nil
	case TokenMinus:
		return -v, nil
	}
	return v, nil
}

func (n *unaryNode) String() string {
	return fmt.Sprintf("(%s%s)", opSymbol(n.op), n.operand)
}

type binaryNode struct {
	op          TokenType
	left, right Node
}

func (n *binaryNode) Eval(vars Vars) (float64, error) {
	l, err := n.left.Eval(vars)
	if err != nil {
		return 0, err
	}

	// Right side stays unevaluated when the left decides the result
	switch n.op {
	case TokenAnd:
		if l == 0 {
			return 0, nil
		}
		r, err := n.right.Eval(vars)
		if err != nil {
			return 0, err
		}
		return boolValue(r != 0), nil
	case TokenOr:
		if l != 0 {
			return 1, nil
		}
		r, err := n.right.Eval(vars)
		if err != nil {
			return 0, err
		}
		return boolValue(r != 0), nil
	}

	r, err := n.right.Eval(vars)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case TokenEq:
		return boolValue(l == r), nil
	case TokenNotEq:
		return boolValue(l != r), nil
	case TokenLT:
		return boolValue(l < r), nil
	case TokenLTE:
		return boolValue(l <= r), nil
	case TokenGT:
		return boolValue(l > r), nil
	case TokenGTE:
		return boolValue(l >= r), nil
	case TokenPlus:
		return l + r, nil
	case TokenMinus:
		return l - r, nil
	case TokenStar:
		return l * r, nil
	case TokenSlash:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	case TokenPercent:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Mod(l, r), nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrSyntax, opSymbol(n.op))
}

func (n *binaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.left, opSymbol(n.op), n.right)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func opSymbol(t TokenType) string {
	switch t {
	case TokenNot:
		return "!"
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenEq:
		return "=="
	case TokenNotEq:
		return "!="
	case TokenLT:
		return "<"
	case TokenLTE:
		return "<="
	case TokenGT:
		return ">"
	case TokenGTE:
		return ">="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenPercent:
		return "%"
	}
	return "?"
}
