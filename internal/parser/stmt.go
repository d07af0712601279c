// internal/parser/stmt.go
package parser

import "golox/internal/lexer"

// Stmt is implemented by ExpressionStmt, PrintStmt, VarStmt and BlockStmt.
type Stmt interface {
	stmtNode()
}

// ExpressionStmt wraps a raw expression as a statement.
type ExpressionStmt struct {
	Expr Expr
}

// PrintStmt wraps an expression to print.
type PrintStmt struct {
	Expr Expr
}

// VarStmt represents a variable declaration: var x = expr;
// Initializer is nil when the declaration has none.
type VarStmt struct {
	Name        lexer.Token
	Initializer Expr
}

// BlockStmt is a braced list of declarations with its own scope.
type BlockStmt struct {
	Stmts []Stmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
