package parser

import (
	"golox/internal/lexer"
	"golox/internal/value"
)

// Expr is implemented by the expression nodes of this package only:
// Literal, Grouping, Unary, Binary, Variable and Assign.
type Expr interface {
	exprNode()
}

// Literal expression: 1, "a", true, nil
type Literal struct {
	Value value.Value
}

// Grouping expression: (expr)
type Grouping struct {
	Expression Expr
}

// Unary expression: !x, -x
type Unary struct {
	Operator lexer.Token
	Right    Expr
}

// Binary expression: a + b
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

// Variable expression: x
type Variable struct {
	Name lexer.Token
}

// Assignment expression: x = 42
type Assign struct {
	Name  lexer.Token
	Value Expr
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
