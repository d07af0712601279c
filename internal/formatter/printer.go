package formatter

import (
	"fmt"
	"strings"

	"golox/internal/parser"
	"golox/internal/value"
)

// PrintExpr renders expr in parenthesized prefix form, e.g. (+ 1 2).
// The output is deterministic for a given tree shape.
func PrintExpr(expr parser.Expr) string {
	var sb strings.Builder
	writeExpr(&sb, expr)
	return sb.String()
}

// PrintStmt renders one statement in the same prefix form:
// (print e), (var x e), (; e) and (block ...).
func PrintStmt(stmt parser.Stmt) string {
	var sb strings.Builder
	writeStmt(&sb, stmt)
	return sb.String()
}

// PrintProgram renders each statement on its own line.
func PrintProgram(stmts []parser.Stmt) string {
	var sb strings.Builder
	for _, stmt := range stmts {
		writeStmt(&sb, stmt)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeStmt(sb *strings.Builder, stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		parenthesize(sb, ";", s.Expr)
	case *parser.PrintStmt:
		parenthesize(sb, "print", s.Expr)
	case *parser.VarStmt:
		if s.Initializer == nil {
			sb.WriteString("(var " + s.Name.Lexeme + ")")
			return
		}
		parenthesize(sb, "var "+s.Name.Lexeme, s.Initializer)
	case *parser.BlockStmt:
		sb.WriteString("(block")
		for _, inner := range s.Stmts {
			sb.WriteString(" ")
			writeStmt(sb, inner)
		}
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("formatter: unknown statement %T", stmt))
	}
}

func writeExpr(sb *strings.Builder, expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Literal:
		sb.WriteString(value.Stringify(e.Value))
	case *parser.Grouping:
		parenthesize(sb, "group", e.Expression)
	case *parser.Unary:
		parenthesize(sb, e.Operator.Lexeme, e.Right)
	case *parser.Binary:
		parenthesize(sb, e.Operator.Lexeme, e.Left, e.Right)
	case *parser.Variable:
		sb.WriteString(e.Name.Lexeme)
	case *parser.Assign:
		parenthesize(sb, "= "+e.Name.Lexeme, e.Value)
	default:
		panic(fmt.Sprintf("formatter: unknown expression %T", expr))
	}
}

func parenthesize(sb *strings.Builder, name string, exprs ...parser.Expr) {
	sb.WriteString("(")
	sb.WriteString(name)
	for _, expr := range exprs {
		sb.WriteString(" ")
		writeExpr(sb, expr)
	}
	sb.WriteString(")")
}
