package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

type input struct {
	name    string
	content []byte
}

// readInputs reads named files, "-" or no names at all mean standard input.
func readInputs(cmd *cobra.Command, names []string) ([]input, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	res := make([]input, 0, len(names))
	for _, name := range names {
		var (
			content []byte
			e       error
		)
		if name == "-" {
			name = stdinName
			content, e = io.ReadAll(cmd.InOrStdin())
		} else {
			content, e = os.ReadFile(name)
		}
		if e != nil {
			return nil, e
		}
		res = append(res, input{name, content})
	}
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
