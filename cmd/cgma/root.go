package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/cgma-lang/cgma/config"
	"github.com/cgma-lang/cgma/lang"
)

var log = commonlog.GetLogger("cgma.cli")

var (
	errRejected = errors.New("source rejected")
	errUsage    = errors.New("usage error")
)

// app holds global flags and the configuration they produce.
type app struct {
	cfgFile    string
	langName   string
	definition string
	verbosity  int
	cfg        *config.Config
	lang       *lang.Language
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cgma",
		Short: "LL(1) scanner and predictive parser",
		Long: `cgma tokenizes and parses sources written in CGMA or in any language
described by a YAML, TOML, or EBNF definition file.

Built-in languages: ` + fmt.Sprint(lang.Names()),
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, e error) error {
		return fmt.Errorf("%w: %s", errUsage, e.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "configuration file (.toml or .yaml)")
	pf.StringVarP(&a.langName, "lang", "l", "", "built-in language name")
	pf.StringVarP(&a.definition, "definition", "d", "", "language definition file (.yaml, .toml, or .ebnf)")
	pf.IntVarP(&a.verbosity, "verbose", "v", 0, "log verbosity from -4 (quiet) to 2 (debug)")

	root.AddCommand(
		newTokenizeCmd(a),
		newParseCmd(a),
		newGrammarCmd(a),
		newLangsCmd(),
		newShellCmd(a),
		newLspCmd(a),
	)
	return root
}

// setup loads configuration, applies environment and flag overrides, and configures logging.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if a.cfgFile != "" {
		var e error
		if c, e = config.Load(a.cfgFile); e != nil {
			return e
		}
	}
	if e := c.ApplyEnv(nil); e != nil {
		return e
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		c.Language = a.langName
		c.Definition = ""
	}
	if flags.Changed("definition") {
		c.Definition = a.definition
	}
	if flags.Changed("verbose") {
		c.Log.Verbosity = a.verbosity
	}
	if e := c.Validate(); e != nil {
		return fmt.Errorf("%w: %s", errUsage, e.Error())
	}

	var logFile *string
	if c.Log.File != "" {
		logFile = &c.Log.File
	}
	commonlog.Configure(c.Log.Verbosity, logFile)
	a.cfg = c
	return nil
}

// language resolves configured language once per command run.
func (a *app) language() (*lang.Language, error) {
	if a.lang == nil {
		l, e := lang.Resolve(a.cfg.Language, a.cfg.Definition)
		if e != nil {
			return nil, e
		}
		log.Debugf("using language %q", l.Name())
		a.lang = l
	}
	return a.lang, nil
}

func (a *app) checkOptions() lang.CheckOptions {
	return lang.CheckOptions{
		ParseOnLexErrors: a.cfg.Parser.ParseOnLexErrors,
		Parser:           a.cfg.ParserOptions(),
	}
}
