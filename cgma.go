/*
Package cgma is an LL(1) compiler front end: a maximal-munch scanner,
a grammar compiler building FIRST/FOLLOW sets and a predict table,
and a stack-driven predictive parser with panic-mode error recovery.

Consists of subpackages:
  - cmd/cgma: console utility to tokenize and parse files, inspect compiled grammars,
    run an interactive shell, and serve diagnostics over LSP;
  - config: CLI and server configuration loaded from TOML or YAML files;
  - grammar: grammar definition, grammar compiler, and compiled (immutable) grammar tables;
  - lang: ready-to-use languages bundling a lexer and a compiled grammar, built-in language registry;
  - langdef: converts language descriptions (YAML, TOML, EBNF) to lexer and grammar definitions;
  - lexer: lexical analyzer;
  - lsp: language server publishing lexical and syntax diagnostics;
  - parser: LL(1) parser engine;
  - source: defines source file and positions within it.

Typical usage is:

1. Describe a language (tokens and productions) in YAML, TOML, or EBNF.
The same description is used by the CLI, the shell, and the language server.

2. Build a lang.Language once at startup. Grammar conflicts are reported here
and never while servicing a parse request.

3. Feed sources to Language.Check (or to Tokenize and Parse separately) from any number of goroutines.
Lexical and syntax errors are returned as data, not as Go errors.
*/
package cgma

import (
	"fmt"
)

// EndOfInput is the kind of the synthetic token appended by lexer
// and the implicit terminal of every grammar.
const EndOfInput = "END_OF_INPUT"

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LangDefErrors = 1   // used by langdef and grammar
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by parser for diagnostics
	ParserErrors  = 301 // used by parser for run-time failures
	ConfigErrors  = 401 // used by config
)

// Error is a failure reported by a cgma package: a broken language definition or configuration,
// a parser run-time failure, or a lexical or syntax diagnostic.
// Code falls into one of the classes above, so the reporting package is known from the code alone.
type Error struct {
	Code    int
	Message string // text with " in <source> at line L col C" appended when position is known

	// Position of the offending text. SourceName may be empty for unnamed input,
	// Line and Col are 0 for errors not tied to source text (grammar conflicts, bad config values).
	SourceName string
	Line, Col  int
}

// SourcePos is anything a diagnostic can point at; tokens and source positions qualify.
type SourcePos interface {
	SourceName() string
	Line() int
	Col() int
}

// NewError builds an Error. The position suffix is appended to msg only when
// line and col are both known, the source name only when it is not empty.
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name != "" {
			msg += fmt.Sprintf(" in %s", name)
		}
		msg += fmt.Sprintf(" at line %d col %d", line, col)
	}
	return &Error{code, msg, name, line, col}
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorCode lets callers test codes of errors wrapping or embedding Error.
func (e *Error) ErrorCode() int {
	return e.Code
}

// FormatError is used for definition and configuration errors that have no position.
// msg is a fmt format when params are given.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos is FormatError for errors located at pos, typically a token or a grammar line.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
