// Package interpreter executes parsed programs by walking the tree.
package interpreter

import (
	"fmt"
	"io"

	"golox/internal/errors"
	"golox/internal/lexer"
	"golox/internal/parser"
	"golox/internal/value"
)

// Interpreter evaluates statements against one environment that lives
// as long as the interpreter, so successive Interpret calls (REPL lines)
// see each other's variables.
type Interpreter struct {
	env      *Environment
	out      io.Writer
	reporter *errors.Reporter
	echo     bool
}

// New returns an interpreter printing to out and reporting runtime
// errors to reporter. Either may be nil.
func New(out io.Writer, reporter *errors.Reporter) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{
		env:      NewEnvironment(),
		out:      out,
		reporter: reporter,
	}
}

// SetEcho makes Interpret print the value of a program that consists of
// a single expression statement.
func (i *Interpreter) SetEcho(echo bool) {
	i.echo = echo
}

// Environment exposes the top-level scope chain.
func (i *Interpreter) Environment() *Environment {
	return i.env
}

// Interpret runs stmts in order. The first runtime error stops the run,
// is reported once and returned.
func (i *Interpreter) Interpret(stmts []parser.Stmt) error {
	if i.echo && len(stmts) == 1 {
		if stmt, ok := stmts[0].(*parser.ExpressionStmt); ok {
			v, err := i.Evaluate(stmt.Expr)
			if err != nil {
				return i.fail(err)
			}
			return i.println(value.Stringify(v))
		}
	}

	for _, stmt := range stmts {
		if err := i.Execute(stmt); err != nil {
			return i.fail(err)
		}
	}
	return nil
}

func (i *Interpreter) fail(err error) error {
	if loxErr, ok := err.(*errors.LoxError); ok && i.reporter != nil {
		i.reporter.Report(loxErr)
	}
	return err
}

// Execute runs a single statement.
func (i *Interpreter) Execute(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := i.Evaluate(s.Expr)
		return err

	case *parser.PrintStmt:
		v, err := i.Evaluate(s.Expr)
		if err != nil {
			return err
		}
		return i.println(value.Stringify(v))

	case *parser.VarStmt:
		v := value.Nil
		if s.Initializer != nil {
			var err error
			if v, err = i.Evaluate(s.Initializer); err != nil {
				return err
			}
		}
		i.env.Define(s.Name.Lexeme, v)
		return nil

	case *parser.BlockStmt:
		return i.executeBlock(s.Stmts)

	default:
		panic(fmt.Sprintf("interpreter: unknown statement %T", stmt))
	}
}

func (i *Interpreter) executeBlock(stmts []parser.Stmt) error {
	i.env.Push()
	defer i.env.Pop()

	for _, stmt := range stmts {
		if err := i.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes the value of expr.
func (i *Interpreter) Evaluate(expr parser.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		if e.Value == nil {
			return value.Nil, nil
		}
		return e.Value, nil

	case *parser.Grouping:
		return i.Evaluate(e.Expression)

	case *parser.Variable:
		return i.env.Get(e.Name)

	case *parser.Assign:
		v, err := i.Evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *parser.Unary:
		return i.evalUnary(e)

	case *parser.Binary:
		return i.evalBinary(e)

	default:
		panic(fmt.Sprintf("interpreter: unknown expression %T", expr))
	}
}

func (i *Interpreter) evalUnary(e *parser.Unary) (value.Value, error) {
	right, err := i.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.TokenBang:
		return value.Bool(!value.Truthy(right)), nil
	case lexer.TokenMinus:
		n, ok := right.(value.Number)
		if !ok {
			return nil, errors.NewTypeError(e.Operator.Line, "Operand must be a number.")
		}
		return -n, nil
	}
	panic(fmt.Sprintf("interpreter: unknown unary operator %s", e.Operator.Type))
}

func (i *Interpreter) evalBinary(e *parser.Binary) (value.Value, error) {
	left, err := i.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.TokenEqualEqual:
		return value.Bool(value.Equal(left, right)), nil
	case lexer.TokenBangEqual:
		return value.Bool(!value.Equal(left, right)), nil
	case lexer.TokenPlus:
		switch l := left.(type) {
		case value.Number:
			if r, ok := right.(value.Number); ok {
				return l + r, nil
			}
		case value.String:
			if r, ok := right.(value.String); ok {
				return l + r, nil
			}
		}
		return nil, errors.NewTypeError(e.Operator.Line, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		return nil, errors.NewTypeError(e.Operator.Line, "Operands must be numbers.")
	}

	switch e.Operator.Type {
	case lexer.TokenMinus:
		return l - r, nil
	case lexer.TokenStar:
		return l * r, nil
	case lexer.TokenSlash:
		return l / r, nil
	case lexer.TokenGreater:
		return value.Bool(l > r), nil
	case lexer.TokenGreaterEqual:
		return value.Bool(l >= r), nil
	case lexer.TokenLess:
		return value.Bool(l < r), nil
	case lexer.TokenLessEqual:
		return value.Bool(l <= r), nil
	}
	panic(fmt.Sprintf("interpreter: unknown binary operator %s", e.Operator.Type))
}

func (i *Interpreter) println(text string) error {
	_, err := io.WriteString(i.out, text+"\n")
	return err
}
