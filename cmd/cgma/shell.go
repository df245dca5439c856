package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/lang"
)

const (
	historyFile = ".cgma_history"
	promptMain  = "cgma> "
	promptCont  = "....> "
)

const shellHelp = `Enter source text to check it, input continues while it is incomplete;
an empty line ends incomplete input.
Commands:
  :lang <name>   switch to built-in language
  :tokens        toggle token listing
  :help          show this text
  :quit          exit
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Check sources interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, e := a.language()
			if e != nil {
				return e
			}
			return a.runShell(cmd, l)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command, l *lang.Language) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "cgma %s, language %q; type :help for help\n", version, l.Name())

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, e := os.Open(histPath); e == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, e := os.Create(histPath); e == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sh := &shell{app: a, lang: l, w: w}
	for {
		src, ok := sh.read(ln)
		if !ok {
			fmt.Fprintln(w)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if sh.exec(src) {
			return nil
		}
	}
}

type shell struct {
	app    *app
	lang   *lang.Language
	w      io.Writer
	tokens bool
}

// read returns complete input: lines are accumulated while the only problem
// with accumulated text is premature end of input.
func (sh *shell) read(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, e := ln.Prompt(prompt)
		if errors.Is(e, io.EOF) {
			return "", false
		}
		if errors.Is(e, liner.ErrPromptAborted) {
			return "", true
		}
		if e != nil {
			return "", false
		}

		if b.Len() > 0 {
			if line == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		} else if strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		b.WriteString(line)

		if !sh.incomplete(b.String()) {
			return b.String(), true
		}
	}
}

func (sh *shell) incomplete(src string) bool {
	r, _ := sh.lang.Check(context.Background(), "", []byte(src), sh.app.checkOptions())
	return isIncomplete(r)
}

// isIncomplete reports whether the only problem with checked text is premature end of input.
func isIncomplete(r *lang.Report) bool {
	if len(r.LexErrors) != 0 || len(r.Errors) != 1 {
		return false
	}
	e := r.Errors[0]
	return e.Kind == "UnexpectedEndOfInput" && e.Actual == cgma.EndOfInput
}

// exec runs command or checks source, returns true to exit.
func (sh *shell) exec(src string) bool {
	if cmd := strings.Fields(src); strings.HasPrefix(src, ":") && len(cmd) > 0 {
		switch cmd[0] {
		case ":quit", ":q":
			return true
		case ":help":
			fmt.Fprint(sh.w, shellHelp)
		case ":tokens":
			sh.tokens = !sh.tokens
			fmt.Fprintf(sh.w, "token listing %s\n", onOff(sh.tokens))
		case ":lang":
			if len(cmd) != 2 {
				fmt.Fprintln(sh.w, "usage: :lang <name>, built-in languages:", strings.Join(lang.Names(), ", "))
				break
			}
			l, e := lang.Builtin(cmd[1])
			if e != nil {
				fmt.Fprintln(sh.w, e.Error())
				break
			}
			sh.lang = l
			fmt.Fprintf(sh.w, "language %q\n", l.Name())
		default:
			fmt.Fprintln(sh.w, "unknown command, type :help for help")
		}
		return false
	}

	if sh.tokens {
		tokens, errs := sh.lang.Tokenize("", []byte(src))
		_ = writeTokens(sh.w, "", lang.NewTokenizeReport(tokens, errs), false)
	}
	r, _ := sh.lang.Check(context.Background(), "", []byte(src), sh.app.checkOptions())
	r.Source = "input"
	_ = writeReport(sh.w, r)
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
