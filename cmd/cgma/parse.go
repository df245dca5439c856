package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cgma-lang/cgma/config"
	"github.com/cgma-lang/cgma/lang"
	"github.com/cgma-lang/cgma/parser"
)

type parseFlags struct {
	asJSON           bool
	trace            bool
	maxErrors        int
	recovery         string
	parseOnLexErrors bool
}

func newParseCmd(a *app) *cobra.Command {
	pf := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse [<file>...]",
		Short: "Check sources against language grammar",
		Long: `Tokenizes and parses sources, printing lexical and syntax errors.
Parsing is skipped for a source with lexical errors unless --parse-on-lex-errors is given.

Examples:
  cgma parse main.cgma
  cgma parse --json --max-errors 10 a.cgma b.cgma
  echo 'a + * b' | cgma --lang expr parse --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("json") && pf.asJSON {
				a.cfg.Output = config.OutputJSON
			}
			if f.Changed("max-errors") {
				a.cfg.Parser.MaxErrors = pf.maxErrors
			}
			if f.Changed("recovery") {
				a.cfg.Parser.Recovery = pf.recovery
			}
			if f.Changed("parse-on-lex-errors") {
				a.cfg.Parser.ParseOnLexErrors = pf.parseOnLexErrors
			}
			if e := a.cfg.Validate(); e != nil {
				return fmt.Errorf("%w: %s", errUsage, e.Error())
			}
			return a.parse(cmd, args, pf.trace)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&pf.asJSON, "json", false, "print JSON report per source")
	f.BoolVar(&pf.trace, "trace", false, "print derivation steps")
	f.IntVar(&pf.maxErrors, "max-errors", 0, "stop after this many syntax errors, 0 means no limit")
	f.StringVar(&pf.recovery, "recovery", config.RecoveryFollow, "panic mode policy: follow or follow-first")
	f.BoolVar(&pf.parseOnLexErrors, "parse-on-lex-errors", false, "parse even if lexical errors were found")
	return cmd
}

func (a *app) parse(cmd *cobra.Command, args []string, trace bool) error {
	l, e := a.language()
	if e != nil {
		return e
	}
	inputs, e := readInputs(cmd, args)
	if e != nil {
		return e
	}

	w := cmd.OutOrStdout()
	opts := a.checkOptions()
	if trace {
		opts.Listener = parser.Trace(w)
	}

	rejected := false
	for _, in := range inputs {
		r, e := l.Check(contextOrBackground(cmd), in.name, in.content, opts)
		if e != nil && !isErrorLimit(e) {
			return e
		}
		rejected = rejected || !r.Success
		if a.cfg.Output == config.OutputJSON {
			e = writeJSON(w, r)
		} else {
			e = writeReport(w, r)
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

func isErrorLimit(e error) bool {
	var c interface{ ErrorCode() int }
	return errors.As(e, &c) && c.ErrorCode() == parser.ErrorLimitError
}

func writeReport(w io.Writer, r *lang.Report) error {
	for _, e := range r.LexErrors {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Kind, e.Message); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Kind, e.Message); err != nil {
			return err
		}
	}

	status := "ok"
	switch {
	case !r.Parsed:
		status = fmt.Sprintf("%d lexical errors, not parsed", len(r.LexErrors))
	case !r.Success:
		status = fmt.Sprintf("%d lexical errors, %d syntax errors", len(r.LexErrors), len(r.Errors))
	}
	_, e := fmt.Fprintf(w, "%s: %s\n", r.Source, status)
	return e
}

// contextOrBackground returns command context, commands run from tests may have none.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
