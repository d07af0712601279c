package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"golox/internal/parser"
	"golox/internal/value"
)

// Formatter renders a parsed program back to canonical source text.
type Formatter struct {
	indent    int
	indentStr string
	output    strings.Builder
	lineBreak string
}

func NewFormatter() *Formatter {
	return &Formatter{
		indent:    0,
		indentStr: "    ", // 4 spaces
		lineBreak: "\n",
	}
}

func (f *Formatter) Format(stmts []parser.Stmt) string {
	f.output.Reset()
	f.indent = 0

	for i, stmt := range stmts {
		f.formatStmt(stmt)
		if i < len(stmts)-1 && f.needsBlankLine(stmt, stmts[i+1]) {
			f.output.WriteString(f.lineBreak)
		}
	}

	return f.output.String()
}

// needsBlankLine separates a top-level block from its neighbours.
func (f *Formatter) needsBlankLine(curr, next parser.Stmt) bool {
	_, currIsBlock := curr.(*parser.BlockStmt)
	_, nextIsBlock := next.(*parser.BlockStmt)
	return currIsBlock || nextIsBlock
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.output.WriteString(f.indentStr)
	}
}

func (f *Formatter) formatStmt(stmt parser.Stmt) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *parser.VarStmt:
		f.writeIndent()
		f.output.WriteString("var ")
		f.output.WriteString(s.Name.Lexeme)
		if s.Initializer != nil {
			f.output.WriteString(" = ")
			f.formatExpr(s.Initializer)
		}
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.PrintStmt:
		f.writeIndent()
		f.output.WriteString("print ")
		f.formatExpr(s.Expr)
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.ExpressionStmt:
		f.writeIndent()
		f.formatExpr(s.Expr)
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.BlockStmt:
		f.writeIndent()
		if len(s.Stmts) == 0 {
			f.output.WriteString("{}")
			f.output.WriteString(f.lineBreak)
			return
		}
		f.output.WriteString("{")
		f.output.WriteString(f.lineBreak)

		f.indent++
		for _, inner := range s.Stmts {
			f.formatStmt(inner)
		}
		f.indent--

		f.writeIndent()
		f.output.WriteString("}")
		f.output.WriteString(f.lineBreak)

	default:
		panic(fmt.Sprintf("formatter: unknown statement %T", stmt))
	}
}

func (f *Formatter) formatExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Literal:
		f.output.WriteString(formatLiteral(e.Value))

	case *parser.Grouping:
		f.output.WriteString("(")
		f.formatExpr(e.Expression)
		f.output.WriteString(")")

	case *parser.Unary:
		f.output.WriteString(e.Operator.Lexeme)
		f.formatExpr(e.Right)

	case *parser.Binary:
		f.formatExpr(e.Left)
		f.output.WriteString(" ")
		f.output.WriteString(e.Operator.Lexeme)
		f.output.WriteString(" ")
		f.formatExpr(e.Right)

	case *parser.Variable:
		f.output.WriteString(e.Name.Lexeme)

	case *parser.Assign:
		f.output.WriteString(e.Name.Lexeme)
		f.output.WriteString(" = ")
		f.formatExpr(e.Value)

	default:
		panic(fmt.Sprintf("formatter: unknown expression %T", expr))
	}
}

// formatLiteral writes a literal so that it scans back to the same value.
func formatLiteral(v value.Value) string {
	switch v := v.(type) {
	case value.String:
		return `"` + string(v) + `"`
	case value.Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	default:
		return value.Stringify(v)
	}
}
