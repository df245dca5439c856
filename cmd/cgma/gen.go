package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cgma-lang/cgma/langdef"
)

type genFlags struct {
	asJSON      bool
	outFile     string
	packageName string
	varName     string
}

var goName = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func makeJSON(d *langdef.Definition) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// makeGo returns Go source declaring d as a *langdef.Definition variable.
func makeGo(d *langdef.Definition, outFile, packageName, varName string) ([]byte, error) {
	if packageName == "" {
		dir, e := filepath.Abs(outFile)
		if e != nil {
			return nil, e
		}
		packageName = filepath.Base(filepath.Dir(dir))
	}
	if varName == "" {
		varName = goIdent(d.Name)
	}

	if !goName.MatchString(packageName) {
		return nil, fmt.Errorf("%w: invalid package name: %s", errUsage, packageName)
	}
	if !goName.MatchString(varName) {
		return nil, fmt.Errorf("%w: invalid variable name: %s", errUsage, varName)
	}

	var buffer bytes.Buffer
	buffer.WriteString("// Code generated with cgma grammar gen.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/cgma-lang/cgma/langdef\"\n\n" +
		"var " + varName + " = &langdef.Definition{\n")
	buffer.WriteString(fmt.Sprintf("\tName:  %q,\n\tStart: %q,\n", d.Name, d.Start))

	buffer.WriteString("\tTokens: []langdef.TokenDef{\n")
	for _, t := range d.Tokens {
		buffer.WriteString("\t\t{" + tokenFields(t) + "},\n")
	}
	buffer.WriteString("\t},\n")

	if len(d.Terminals) != 0 {
		buffer.WriteString("\tTerminals: []string{" + quoteList(d.Terminals) + "},\n")
	}

	buffer.WriteString("\tProductions: []langdef.ProductionDef{\n")
	lhs := ""
	for _, p := range d.Productions {
		buffer.WriteString(fmt.Sprintf("\t\t{LHS: %q, RHS: %q},", p.LHS, p.RHS))
		if p.LHS != lhs {
			buffer.WriteString(" // " + p.LHS)
			lhs = p.LHS
		}
		buffer.WriteString("\n")
	}
	buffer.WriteString("\t},\n}\n")
	return buffer.Bytes(), nil
}

func tokenFields(t langdef.TokenDef) string {
	var fields []string
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, name+": "+value)
		}
	}
	quote := func(s string) string {
		if s == "" {
			return ""
		}
		return fmt.Sprintf("%q", s)
	}

	add("Kind", quote(t.Kind))
	add("Pattern", quote(t.Pattern))
	add("Literal", quote(t.Literal))
	if len(t.Literals) != 0 {
		add("Literals", "[]string{"+quoteList(t.Literals)+"}")
	}
	if t.Skip {
		add("Skip", "true")
	}
	add("Error", quote(t.Error))
	if t.MaxLen != 0 {
		add("MaxLen", fmt.Sprint(t.MaxLen))
	}
	return strings.Join(fields, ", ")
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

// goIdent converts language name to exported Go identifier: "my-lang" becomes "MyLangDefinition".
func goIdent(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			upper = true
		case r < 0x80 && (r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			if upper {
				r = []rune(strings.ToUpper(string(r)))[0]
				upper = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String() + "Definition"
}
