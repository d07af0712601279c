package lexer

import (
	"fmt"

	"golox/internal/value"
)

type TokenType string

const (
	// Single-character tokens
	TokenLParen    TokenType = "LEFT_PAREN"
	TokenRParen    TokenType = "RIGHT_PAREN"
	TokenLBrace    TokenType = "LEFT_BRACE"
	TokenRBrace    TokenType = "RIGHT_BRACE"
	TokenComma     TokenType = "COMMA"
	TokenDot       TokenType = "DOT"
	TokenMinus     TokenType = "MINUS"
	TokenPlus      TokenType = "PLUS"
	TokenSemicolon TokenType = "SEMICOLON"
	TokenSlash     TokenType = "SLASH"
	TokenStar      TokenType = "STAR"

	// One or two character tokens
	TokenBang         TokenType = "BANG"
	TokenBangEqual    TokenType = "BANG_EQUAL"
	TokenEqual        TokenType = "EQUAL"
	TokenEqualEqual   TokenType = "EQUAL_EQUAL"
	TokenGreater      TokenType = "GREATER"
	TokenGreaterEqual TokenType = "GREATER_EQUAL"
	TokenLess         TokenType = "LESS"
	TokenLessEqual    TokenType = "LESS_EQUAL"

	// Literals
	TokenIdent  TokenType = "IDENTIFIER"
	TokenString TokenType = "STRING"
	TokenNumber TokenType = "NUMBER"

	// Keywords
	TokenAnd    TokenType = "AND"
	TokenClass  TokenType = "CLASS"
	TokenElse   TokenType = "ELSE"
	TokenFalse  TokenType = "FALSE"
	TokenFun    TokenType = "FUN"
	TokenFor    TokenType = "FOR"
	TokenIf     TokenType = "IF"
	TokenNil    TokenType = "NIL"
	TokenOr     TokenType = "OR"
	TokenPrint  TokenType = "PRINT"
	TokenReturn TokenType = "RETURN"
	TokenSuper  TokenType = "SUPER"
	TokenThis   TokenType = "THIS"
	TokenTrue   TokenType = "TRUE"
	TokenVar    TokenType = "VAR"
	TokenWhile  TokenType = "WHILE"

	TokenEOF TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

// LookupKeyword returns the keyword type for text, or TokenIdent.
func LookupKeyword(text string) TokenType {
	if t, ok := keywords[text]; ok {
		return t
	}
	return TokenIdent
}

// Token is one lexeme of the source. Literal is set only for string and
// number tokens.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal value.Value
	Line    int
}

func (t Token) String() string {
	literal := "null"
	if t.Literal != nil {
		literal = value.Stringify(t.Literal)
	}
	return fmt.Sprintf("%s %s %s", t.Type, t.Lexeme, literal)
}
