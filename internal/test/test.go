// Package test contains assertion helpers shared by package tests.
package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectString(t *testing.T, expected, got string) {
	t.Helper()
	if expected != got {
		fatalf(t, "expecting %q, got %q", expected, got)
	}
}

func ExpectStrings(t *testing.T, expected, got []string) {
	t.Helper()
	same := len(expected) == len(got)
	for i := 0; same && i < len(got); i++ {
		same = expected[i] == got[i]
	}
	if !same {
		fatalf(t, "expecting %q, got %q", expected, got)
	}
}

type coder interface {
	ErrorCode() int
}

// ExpectErrorCode checks that e (or an error it wraps) carries expected cgma error code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	var c coder
	if e != nil && errors.As(e, &c) && c.ErrorCode() == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}

func ExpectNoError(t *testing.T, e error) {
	t.Helper()
	if e != nil {
		fatalf(t, "unexpected error: %v", e)
	}
}
