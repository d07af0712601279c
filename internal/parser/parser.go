// internal/parser/parser.go
package parser

import (
	"golox/internal/errors"
	"golox/internal/lexer"
	"golox/internal/value"
)

// parseError unwinds the parser back to the enclosing declaration after
// the error has been reported.
type parseError struct{}

type Parser struct {
	tokens   []lexer.Token
	current  int
	reporter *errors.Reporter
	hadError bool
}

// NewParser returns a parser over tokens, which must end with an EOF
// token. Syntax errors go to reporter, which may be nil.
func NewParser(tokens []lexer.Token, reporter *errors.Reporter) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, lexer.Token{Type: lexer.TokenEOF, Line: line})
	}
	return &Parser{
		tokens:   tokens,
		reporter: reporter,
	}
}

// Parse parses the whole program. Declarations that failed to parse are
// left out of the result; check HadError before executing it.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// HadError reports whether any syntax error occurred.
func (p *Parser) HadError() bool {
	return p.hadError
}

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(lexer.TokenVar) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(lexer.TokenIdent, "Expect variable name.")

	var initializer Expr
	if p.match(lexer.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	if p.match(lexer.TokenPrint) {
		return p.printStatement()
	}
	if p.match(lexer.TokenLBrace) {
		return &BlockStmt{Stmts: p.block()}
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	return &PrintStmt{Expr: expr}
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	return &ExpressionStmt{Expr: expr}
}

// block parses the declarations after an opening brace.
func (p *Parser) block() []Stmt {
	stmts := []Stmt{}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.TokenRBrace, "Expect '}' after block.")
	return stmts
}

// --- Expressions, lowest precedence first ---

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.equality()

	if p.match(lexer.TokenEqual) {
		equals := p.previous()
		rhs := p.assignment()

		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: rhs}
		}
		// Reported but not thrown: the parser is not confused.
		p.error(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) equality() Expr {
	return p.binary(p.comparison, lexer.TokenBangEqual, lexer.TokenEqualEqual)
}

func (p *Parser) comparison() Expr {
	return p.binary(p.term,
		lexer.TokenGreater, lexer.TokenGreaterEqual, lexer.TokenLess, lexer.TokenLessEqual)
}

func (p *Parser) term() Expr {
	return p.binary(p.factor, lexer.TokenMinus, lexer.TokenPlus)
}

func (p *Parser) factor() Expr {
	return p.binary(p.unary, lexer.TokenSlash, lexer.TokenStar)
}

// binary parses a left-associative chain of operand separated by any of
// the operators.
func (p *Parser) binary(operand func() Expr, operators ...lexer.TokenType) Expr {
	expr := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(lexer.TokenBang, lexer.TokenMinus) {
		operator := p.previous()
		right := p.unary()
		return &Unary{Operator: operator, Right: right}
	}
	return p.primary()
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(lexer.TokenFalse):
		return &Literal{Value: value.Bool(false)}
	case p.match(lexer.TokenTrue):
		return &Literal{Value: value.Bool(true)}
	case p.match(lexer.TokenNil):
		return &Literal{Value: value.Nil}
	case p.match(lexer.TokenNumber, lexer.TokenString):
		return &Literal{Value: p.previous().Literal}
	case p.match(lexer.TokenIdent):
		return &Variable{Name: p.previous()}
	case p.match(lexer.TokenLParen):
		expr := p.expression()
		p.consume(lexer.TokenRParen, "Expect ')' after expression.")
		return &Grouping{Expression: expr}
	}
	panic(p.error(p.peek(), "Expect expression."))
}

// --- Error recovery ---

// error reports a syntax error at tok and returns the value to panic
// with when the caller cannot continue.
func (p *Parser) error(tok lexer.Token, msg string) parseError {
	p.hadError = true
	if p.reporter != nil {
		p.reporter.Report(errors.NewSyntaxError(tok.Line, tok.Lexeme, tok.Type == lexer.TokenEOF, msg))
	}
	return parseError{}
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// --- Utility methods ---

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.error(p.peek(), msg))
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}
