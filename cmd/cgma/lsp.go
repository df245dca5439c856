package main

import (
	"github.com/spf13/cobra"

	"github.com/cgma-lang/cgma/lsp"
)

func newLspCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run language server over stdio",
		Long: `Runs Language Server Protocol server on standard input and output.
The server publishes lexical and syntax diagnostics whenever a document is opened, changed, or saved.
Log output goes to the configured log file, stderr otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, e := a.language()
			if e != nil {
				return e
			}
			return lsp.NewServer(l, a.checkOptions(), version).RunStdio()
		},
	}
}
