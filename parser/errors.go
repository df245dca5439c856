package parser

import (
	"strconv"
	"strings"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/lexer"
	"github.com/cgma-lang/cgma/source"
)

// Syntax error codes, reported as SyntaxError values in Rejected result:
const (
	UnexpectedTokenError = cgma.SyntaxErrors + iota
	UnexpectedEndOfInputError
)

// Run-time error codes, returned as Go errors by Parser.Parse:
const (
	// CanceledError indicates that parsing context was canceled or its deadline exceeded.
	CanceledError = cgma.ParserErrors + iota

	// ErrorLimitError indicates that parsing stopped after reaching maximum number of syntax errors.
	ErrorLimitError

	// NoProgressError indicates that parser expanded more non-terminals than the grammar
	// allows without consuming a token or shrinking the stack.
	NoProgressError
)

// SyntaxError is a syntax diagnostic. Parser never returns it as Go error,
// it is collected into Rejected result.
type SyntaxError struct {
	// Code is either UnexpectedTokenError or UnexpectedEndOfInputError.
	// The latter is also used for tokens remaining after the start symbol is derived,
	// Actual tells the two cases apart.
	Code int

	// Message contains error message including position information.
	Message string

	// Pos contains position of offending token.
	Pos source.Pos

	// Expected contains terminals acceptable at error position in terminal declaration order.
	Expected []string

	// Actual contains kind of offending token.
	Actual string

	// Text contains offending token text, empty at end of input.
	Text string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func (e *SyntaxError) ErrorCode() int {
	return e.Code
}

// Kind returns "UnexpectedToken" or "UnexpectedEndOfInput".
func (e *SyntaxError) Kind() string {
	if e.Code == UnexpectedEndOfInputError {
		return "UnexpectedEndOfInput"
	}
	return "UnexpectedToken"
}

func expectation(expected []string) string {
	quoted := make([]string, len(expected))
	for i, name := range expected {
		quoted[i] = strconv.Quote(name)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "one of " + strings.Join(quoted, ", ")
}

func describe(t *lexer.Token) string {
	if t.Text() == t.Kind() {
		return strconv.Quote(t.Text())
	}
	return t.Kind() + " " + strconv.Quote(t.Text())
}

func newSyntaxError(t *lexer.Token, code int, expected []string, msg string) *SyntaxError {
	return &SyntaxError{code, cgma.FormatErrorPos(t, code, "%s", msg).Message, t.Pos(), expected, t.Kind(), t.Text()}
}

func syntaxError(t *lexer.Token, expected []string) *SyntaxError {
	if t.IsEoi() {
		return newSyntaxError(t, UnexpectedEndOfInputError, expected,
			"unexpected end of input, expecting "+expectation(expected))
	}
	return newSyntaxError(t, UnexpectedTokenError, expected,
		"unexpected "+describe(t)+", expecting "+expectation(expected))
}

// trailingInputError reports tokens remaining after the start symbol is derived.
func trailingInputError(t *lexer.Token) *SyntaxError {
	return newSyntaxError(t, UnexpectedEndOfInputError, []string{cgma.EndOfInput},
		"tokens remaining after parsing, "+describe(t)+" found instead of end of input")
}

func canceledError(e error) *cgma.Error {
	return cgma.FormatError(CanceledError, "parsing canceled: %s", e.Error())
}

func errorLimitError(limit int) *cgma.Error {
	return cgma.FormatError(ErrorLimitError, "too many syntax errors (limit %d)", limit)
}

func noProgressError(t *lexer.Token, nonterm string) *cgma.Error {
	return cgma.FormatErrorPos(t, NoProgressError, "parser made no progress expanding %q", nonterm)
}
