// Package condition evaluates the boolean gate expressions attached to story choices.
// The grammar is a closed arithmetic/comparison/logical subset over named variables;
// nothing outside it can be executed.
package condition

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrSyntax            = errors.New("condition syntax error")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Vars binds identifier names to numeric values
type Vars map[string]float64

// Program is a compiled expression, safe for concurrent evaluation
type Program struct {
	source string
	root   Node
}

// Compile parses expr. A blank expression compiles to a program that is always true.
func Compile(expr string) (*Program, error) {
	if strings.TrimSpace(expr) == "" {
		return &Program{source: expr}, nil
	}
	root, err := NewParser(expr).Parse()
	if err != nil {
		return nil, err
	}
	return &Program{source: expr, root: root}, nil
}

// Source returns the expression text the program was compiled from
func (p *Program) Source() string { return p.source }

// Eval reports whether the expression is truthy under vars
func (p *Program) Eval(vars Vars) (bool, error) {
	if p.root == nil {
		return true, nil
	}
	v, err := p.root.Eval(vars)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Identifiers lists the distinct variable names the program reads, in first-use order
func (p *Program) Identifiers() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case identNode:
			if !seen[string(t)] {
				seen[string(t)] = true
				names = append(names, string(t))
			}
		case *unaryNode:
			walk(t.operand)
		case *binaryNode:
			walk(t.left)
			walk(t.right)
		}
	}
	if p.root != nil {
		walk(p.root)
	}
	return names
}

func (p *Program) String() string {
	if p.root == nil {
		return "true"
	}
	return p.root.String()
}

// Evaluate compiles and evaluates expr in one step
func Evaluate(expr string, vars Vars) (bool, error) {
	prog, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return prog.Eval(vars)
}

// Cache memoizes compiled programs by source text, including compile failures
type Cache struct {
	mu       sync.RWMutex
	programs map[string]cacheEntry
}

type cacheEntry struct {
	prog *Program
	err  error
}

func NewCache() *Cache {
	return &Cache{programs: make(map[string]cacheEntry)}
}

// Compile returns the cached program for expr, compiling on first use
func (c *Cache) Compile(expr string) (*Program, error) {
	c.mu.RLock()
	entry, ok := c.programs[expr]
	c.mu.RUnlock()
	if ok {
		return entry.prog, entry.err
	}

	prog, err := Compile(expr)

	c.mu.Lock()
	c.programs[expr] = cacheEntry{prog: prog, err: err}
	c.mu.Unlock()
	return prog, err
}

// Evaluate is Compile followed by Eval
func (c *Cache) Evaluate(expr string, vars Vars) (bool, error) {
	prog, err := c.Compile(expr)
	if err != nil {
		return false, err
	}
	return prog.Eval(vars)
}

// Len reports the number of cached expressions
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}
