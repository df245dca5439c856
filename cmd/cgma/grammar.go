package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/lang"
)

func newGrammarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect language grammar",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Compile grammar and report LL(1) conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.checkGrammar(cmd.OutOrStdout())
		},
	}

	var tablesJSON bool
	tables := &cobra.Command{
		Use:   "tables",
		Short: "Print nullable, FIRST, FOLLOW, and predict tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, e := a.language()
			if e != nil {
				return e
			}
			t := l.Grammar().Tables()
			if tablesJSON {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			return writeTables(cmd.OutOrStdout(), t)
		},
	}
	tables.Flags().BoolVar(&tablesJSON, "json", false, "print tables as JSON")

	gf := &genFlags{}
	gen := &cobra.Command{
		Use:   "gen",
		Short: "Translate language definition to Go or JSON file",
		Long: `Writes language definition as Go source declaring a *langdef.Definition variable
or as JSON document. Output file defaults to the definition file (or language name)
with .go or .json suffix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, e := a.language()
			if e != nil {
				return e
			}
			out := gf.outFile
			if out == "" {
				out = defaultOutFile(a.cfg.Definition, l.Name(), gf.asJSON)
			}

			var content []byte
			if gf.asJSON {
				content, e = makeJSON(l.Definition())
			} else {
				content, e = makeGo(l.Definition(), out, gf.packageName, gf.varName)
			}
			if e == nil {
				e = os.WriteFile(out, content, 0o666)
			}
			if e == nil {
				log.Infof("written %s", out)
			}
			return e
		},
	}
	gen.Flags().BoolVarP(&gf.asJSON, "json", "j", false, "output JSON instead of Go")
	gen.Flags().StringVarP(&gf.outFile, "output", "o", "", "output file name")
	gen.Flags().StringVarP(&gf.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	gen.Flags().StringVarP(&gf.varName, "name", "n", "", "Go variable name, default is the language name")

	cmd.AddCommand(check, tables, gen)
	return cmd
}

func (a *app) checkGrammar(w io.Writer) error {
	l, e := a.language()
	var ce *grammar.ConflictError
	if errors.As(e, &ce) {
		for _, c := range ce.Conflicts {
			if _, err := fmt.Fprintln(w, c.String()); err != nil {
				return err
			}
		}
		return errRejected
	}
	if e != nil {
		return e
	}

	g := l.Grammar()
	_, e = fmt.Fprintf(w, "%s: LL(1), %d terminals, %d non-terminals, %d productions\n",
		l.Name(), len(g.Terminals()), g.NontermCount(), g.ProductionCount())
	return e
}

func writeTables(w io.Writer, t *grammar.Tables) error {
	var sb strings.Builder
	sb.WriteString("start: " + t.Start + "\n\nproductions:\n")
	for i, p := range t.Productions {
		fmt.Fprintf(&sb, "  %d: %s\n", i, p)
	}

	sb.WriteString("\nnon-terminals:\n")
	for _, name := range t.Nonterminals {
		fmt.Fprintf(&sb, "  %s\n", name)
		if t.Nullable[name] {
			sb.WriteString("    nullable\n")
		}
		fmt.Fprintf(&sb, "    first:  %s\n", strings.Join(t.First[name], " "))
		fmt.Fprintf(&sb, "    follow: %s\n", strings.Join(t.Follow[name], " "))
		row := t.Predict[name]
		for _, term := range t.Terminals {
			if id, f := row[term]; f {
				fmt.Fprintf(&sb, "    %s -> %d\n", term, id)
			}
		}
	}

	_, e := io.WriteString(w, sb.String())
	return e
}

func defaultOutFile(definition, name string, asJSON bool) string {
	base := name
	if definition != "" {
		base = definition[:len(definition)-len(filepath.Ext(definition))]
	}
	if asJSON {
		return base + ".json"
	}
	return base + ".go"
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List built-in languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range lang.Names() {
				l, e := lang.Builtin(name)
				if e != nil {
					return e
				}
				g := l.Grammar()
				_, e = fmt.Fprintf(w, "%s\tstart %s, %d terminals, %d productions\n",
					name, g.Start(), len(g.Terminals()), g.ProductionCount())
				if e != nil {
					return e
				}
			}
			return nil
		},
	}
}
