package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/source"
)

// Error codes used by lexer:
const (
	// InvalidCharError indicates that no token definition matches at current position.
	// Lexer reports the rune and skips it.
	InvalidCharError = cgma.LexicalErrors + iota

	// UnterminatedLiteralError indicates a string or char literal with no closing delimiter.
	UnterminatedLiteralError

	// UnterminatedCommentError indicates a block comment with no closing delimiter.
	UnterminatedCommentError

	// MalformedNumberError indicates a numeric literal glued to letters or missing its fractional part.
	MalformedNumberError

	// TooLongError indicates a lexeme longer than MaxLen of its definition.
	TooLongError

	// DefinitionError indicates an invalid token definition passed to New.
	DefinitionError
)

var kindNames = map[int]string{
	InvalidCharError:         "InvalidCharacter",
	UnterminatedLiteralError: "UnterminatedLiteral",
	UnterminatedCommentError: "UnterminatedComment",
	MalformedNumberError:     "MalformedNumber",
	TooLongError:             "LiteralTooLong",
}

// KindName returns symbolic name of lexical error code or empty string.
func KindName(code int) string {
	return kindNames[code]
}

// KindCode returns lexical error code for symbolic name.
func KindCode(name string) (int, bool) {
	for code, n := range kindNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// Error is a lexical diagnostic. Lexer never returns it as Go error,
// it is collected into the error list returned by Tokenize.
type Error struct {
	// Code contains one of lexical error codes.
	Code int

	// Message contains error message including position information.
	Message string

	// Pos contains position of offending text.
	Pos source.Pos

	// Text contains offending text fragment.
	Text string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrorCode() int {
	return e.Code
}

// Kind returns symbolic name of error code, e.g. "InvalidCharacter".
func (e *Error) Kind() string {
	return KindName(e.Code)
}

func newError(pos source.Pos, code int, text, msg string, params ...any) *Error {
	return &Error{code, cgma.FormatErrorPos(pos, code, msg, params...).Message, pos, text}
}

func invalidCharError(pos source.Pos, content []byte) (*Error, int) {
	r, size := utf8.DecodeRune(content)
	text := string(content[:size])
	if r == utf8.RuneError && size <= 1 {
		return newError(pos, InvalidCharError, text, "invalid byte 0x%02x", content[0]), 1
	}
	return newError(pos, InvalidCharError, text, "invalid character %q (u+%04x)", r, r), size
}

func brokenLexemeError(pos source.Pos, code int, kind, text string) *Error {
	switch code {
	case UnterminatedLiteralError:
		return newError(pos, code, text, "missing closing delimiter of %s %q", kind, text)
	case UnterminatedCommentError:
		return newError(pos, code, text, "unterminated comment")
	case MalformedNumberError:
		return newError(pos, code, text, "malformed number %q", text)
	default:
		return newError(pos, code, text, "bad %s %q", kind, text)
	}
}

func tooLongError(pos source.Pos, kind, text string, maxLen int) *Error {
	return newError(pos, TooLongError, text, "%s %q exceeds maximum length of %d", kind, text, maxLen)
}

func definitionError(index int, msg string, params ...any) *cgma.Error {
	return cgma.FormatError(DefinitionError, "token definition #%d: %s", index+1, fmt.Sprintf(msg, params...))
}
