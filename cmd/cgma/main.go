/*
cgma is a console utility to tokenize and parse sources written in CGMA or any language
described by a definition file, to inspect compiled grammars, and to serve diagnostics over LSP.
Usage is

	cgma [--config <file>] [--lang <name> | --definition <file>] [-v <level>] <command>

Commands are

	tokenize [--json] [<file>...]
	parse [--json] [--trace] [--max-errors <n>] [--recovery follow|follow-first] [--parse-on-lex-errors] [<file>...]
	grammar check
	grammar tables [--json]
	grammar gen ([-j] | [-p <name>] [-n <name>]) [-o <file>]
	langs
	shell
	lsp

Sources are read from standard input if no file is given or file is "-".
Exit status is 0 if all sources are accepted, 1 if lexical or syntax errors were found,
2 for usage errors, and 3 for other failures.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

func main() {
	e := newRootCmd().Execute()
	if e == nil {
		return
	}
	if !errors.Is(e, errRejected) {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	os.Exit(exitCode(e))
}

func exitCode(e error) int {
	switch {
	case e == nil:
		return 0
	case errors.Is(e, errRejected):
		return 1
	case errors.Is(e, errUsage):
		return 2
	default:
		return 3
	}
}
