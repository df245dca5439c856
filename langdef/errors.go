package langdef

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/cgma-lang/cgma"
)

// Error codes used by langdef, they follow grammar compiler codes within cgma.LangDefErrors class:
const (
	// DecodeError indicates a malformed YAML or TOML document.
	DecodeError = cgma.LangDefErrors + 50 + iota

	// UnknownKeyError indicates a key not belonging to definition schema.
	UnknownKeyError

	// InvalidDefinitionError indicates a structurally wrong definition (missing name, start, tokens, or productions).
	InvalidDefinitionError

	// TokenDefError indicates an invalid token definition.
	TokenDefError

	// EbnfError indicates a syntactically wrong EBNF source.
	EbnfError

	// EbnfConversionError indicates an EBNF construct that cannot be converted.
	EbnfConversionError

	// FormatError indicates unsupported file extension.
	FormatError

	// ReadError indicates a file that cannot be read.
	ReadError
)

func decodeError(name, format string, e error) *cgma.Error {
	return cgma.FormatError(DecodeError, "%s: malformed %s: %s", name, format, e.Error())
}

func unknownKeyError(name string, keys []string) *cgma.Error {
	return cgma.FormatError(UnknownKeyError, "%s: unknown keys: %s", name, strings.Join(keys, ", "))
}

func invalidDefinitionError(name, msg string, params ...any) *cgma.Error {
	return cgma.FormatError(InvalidDefinitionError, "%s: %s", name, fmt.Sprintf(msg, params...))
}

func tokenDefError(name string, index int, msg string, params ...any) *cgma.Error {
	return cgma.FormatError(TokenDefError, "%s: token #%d: %s", name, index, fmt.Sprintf(msg, params...))
}

func ebnfError(e error) *cgma.Error {
	return cgma.FormatError(EbnfError, "%s", e.Error())
}

func ebnfConversionError(pos scanner.Position, production, msg string, params ...any) *cgma.Error {
	return cgma.NewError(EbnfConversionError, fmt.Sprintf("production %s: ", production)+fmt.Sprintf(msg, params...),
		pos.Filename, pos.Line, pos.Column)
}

func formatError(path string) *cgma.Error {
	return cgma.FormatError(FormatError, "%s: unsupported definition format, expecting .yaml, .yml, .toml, or .ebnf", path)
}

func readError(e error) *cgma.Error {
	return cgma.FormatError(ReadError, "%s", e.Error())
}
