package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"golox/internal/errors"
	"golox/internal/value"
)

type Scanner struct {
	source   string
	tokens   []Token
	start    int
	current  int
	line     int
	reporter *errors.Reporter
	hadError bool
	comments int
}

// NewScanner returns a scanner over source. Scan errors go to reporter,
// which may be nil.
func NewScanner(source string, reporter *errors.Reporter) *Scanner {
	return &Scanner{
		source:   source,
		line:     1,
		reporter: reporter,
	}
}

// ScanTokens scans the whole source. The result always ends with a
// single EOF token, even when errors were reported.
func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: TokenEOF, Lexeme: "", Line: s.line})
	return s.tokens
}

// Comments returns how many comments the scan skipped.
func (s *Scanner) Comments() int {
	return s.comments
}

// HadError reports whether any scan error occurred.
func (s *Scanner) HadError() bool {
	return s.hadError
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(TokenLParen)
	case ')':
		s.addToken(TokenRParen)
	case '{':
		s.addToken(TokenLBrace)
	case '}':
		s.addToken(TokenRBrace)
	case ',':
		s.addToken(TokenComma)
	case '.':
		s.addToken(TokenDot)
	case '-':
		s.addToken(TokenMinus)
	case '+':
		s.addToken(TokenPlus)
	case ';':
		s.addToken(TokenSemicolon)
	case '*':
		s.addToken(TokenStar)
	case '!':
		s.addToken(s.choose('=', TokenBangEqual, TokenBang))
	case '=':
		s.addToken(s.choose('=', TokenEqualEqual, TokenEqual))
	case '<':
		s.addToken(s.choose('=', TokenLessEqual, TokenLess))
	case '>':
		s.addToken(s.choose('=', TokenGreaterEqual, TokenGreater))
	case '/':
		if s.match('/') {
			s.comments++
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else if s.match('*') {
			s.comments++
			s.blockComment()
		} else {
			s.addToken(TokenSlash)
		}
	case ' ', '\r', '\t':
		// Ignore whitespace
	case '\n':
		s.line++
	case '"':
		s.string()
	default:
		if isDigit(c) {
			s.number()
			return
		}
		r, size := utf8.DecodeRuneInString(s.source[s.start:])
		// Consume a multi-byte character whole, so it is reported once.
		s.current = s.start + max(size, 1)
		if isAlpha(r) {
			s.identifier()
		} else {
			s.report("Unexpected character.")
		}
	}
}

// blockComment skips a /* */ comment whose opening has been consumed.
// Comments nest, so the comment ends at the */ that brings the depth
// back to zero.
func (s *Scanner) blockComment() {
	depth := 1
	for depth > 0 && !s.isAtEnd() {
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			s.current += 2
			depth++
		case s.peek() == '*' && s.peekNext() == '/':
			s.current += 2
			depth--
		default:
			if s.advance() == '\n' {
				s.line++
			}
		}
	}
	if depth > 0 {
		s.report("Unterminated comment.")
	}
}

func (s *Scanner) identifier() {
	for !s.isAtEnd() {
		r, size := utf8.DecodeRuneInString(s.source[s.current:])
		if !isAlphaNumeric(r) {
			break
		}
		s.current += size
	}
	s.addToken(LookupKeyword(s.source[s.start:s.current]))
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	n, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil {
		s.report("Invalid number.")
		return
	}
	s.addLiteral(TokenNumber, value.Number(n))
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.report("Unterminated string.")
		return
	}
	s.advance()
	s.addLiteral(TokenString, value.String(s.source[s.start+1:s.current-1]))
}

func (s *Scanner) addToken(t TokenType) {
	s.addLiteral(t, nil)
}

func (s *Scanner) addLiteral(t TokenType, literal value.Value) {
	text := s.source[s.start:s.current]
	s.tokens = append(s.tokens, Token{Type: t, Lexeme: text, Literal: literal, Line: s.line})
}

func (s *Scanner) report(msg string) {
	s.hadError = true
	if s.reporter != nil {
		s.reporter.Report(errors.NewScanError(s.line, msg))
	}
}

func (s *Scanner) choose(expected byte, matched, otherwise TokenType) TokenType {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	s.current++
	return s.source[s.current-1]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// isAlpha accepts any Unicode letter and '_'.
func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
