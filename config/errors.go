package config

import (
	"strings"

	"github.com/cgma-lang/cgma"
)

// Error codes used by config:
const (
	ReadError = cgma.ConfigErrors + iota
	DecodeError
	UnknownKeyError
	InvalidValueError
)

func readError(e error) *cgma.Error {
	return cgma.FormatError(ReadError, "%s", e.Error())
}

func decodeError(path, format string, e error) *cgma.Error {
	return cgma.FormatError(DecodeError, "%s: malformed %s configuration: %s", path, format, e.Error())
}

func unknownKeyError(path string, keys []string) *cgma.Error {
	return cgma.FormatError(UnknownKeyError, "%s: unknown configuration keys: %s", path, strings.Join(keys, ", "))
}

func invalidValueError(key, msg string, params ...any) *cgma.Error {
	e := cgma.FormatError(InvalidValueError, msg, params...)
	e.Message = key + ": " + e.Message
	return e
}
