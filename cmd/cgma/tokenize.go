package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cgma-lang/cgma/config"
	"github.com/cgma-lang/cgma/lang"
)

func newTokenizeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tokenize [<file>...]",
		Short: "Print tokens and lexical errors",
		Long: `Scans sources and prints one token per line (position, kind, lexeme)
followed by lexical errors.

Examples:
  cgma tokenize main.cgma
  echo 'a + b' | cgma --lang expr tokenize --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("json") && asJSON {
				a.cfg.Output = config.OutputJSON
			}
			return a.tokenize(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print {tokens, errors} JSON report")
	return cmd
}

func (a *app) tokenize(cmd *cobra.Command, args []string) error {
	l, e := a.language()
	if e != nil {
		return e
	}
	inputs, e := readInputs(cmd, args)
	if e != nil {
		return e
	}

	w := cmd.OutOrStdout()
	rejected := false
	for _, in := range inputs {
		tokens, errs := l.Tokenize(in.name, in.content)
		r := lang.NewTokenizeReport(tokens, errs)
		rejected = rejected || len(errs) > 0
		if a.cfg.Output == config.OutputJSON {
			e = writeJSON(w, r)
		} else {
			e = writeTokens(w, in.name, r, len(inputs) > 1)
		}
		if e != nil {
			return e
		}
	}

	if rejected {
		return errRejected
	}
	return nil
}

func writeTokens(w io.Writer, name string, r *lang.TokenizeReport, header bool) error {
	if header {
		if _, e := fmt.Fprintf(w, "# %s\n", name); e != nil {
			return e
		}
	}
	for _, t := range r.Tokens {
		if _, e := fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Line, t.Column, t.Kind, t.Lexeme); e != nil {
			return e
		}
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Kind, e.Message); err != nil {
			return err
		}
	}
	return nil
}
