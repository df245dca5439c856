package lang

import (
	"bytes"
	"embed"
	"path"
	"sort"
	"sync"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/langdef"
)

// UnknownLanguageError is returned by Builtin for unknown language names.
const UnknownLanguageError = cgma.LangDefErrors + 90

//go:embed builtin/*.yaml builtin/*.ebnf
var builtinFiles embed.FS

type builtin struct {
	file string
	once sync.Once
	lang *Language
	err  error
}

var builtins = map[string]*builtin{
	"calc": {file: "builtin/calc.ebnf"},
	"cgma": {file: "builtin/cgma.yaml"},
	"expr": {file: "builtin/expr.yaml"},
}

// DefaultName is the name of language used when none is configured.
const DefaultName = "cgma"

// Names returns sorted names of built-in languages.
func Names() []string {
	res := make([]string, 0, len(builtins))
	for name := range builtins {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Builtin returns built-in language, compiling it on first use.
func Builtin(name string) (*Language, error) {
	b, f := builtins[name]
	if !f {
		return nil, cgma.FormatError(UnknownLanguageError, "unknown language %q", name)
	}

	b.once.Do(func() {
		b.lang, b.err = b.build(name)
		if b.err == nil {
			log.Infof("built-in language %q compiled", name)
		}
	})
	return b.lang, b.err
}

func (b *builtin) build(name string) (*Language, error) {
	content, e := builtinFiles.ReadFile(b.file)
	if e != nil {
		return nil, e
	}

	var d *langdef.Definition
	if path.Ext(b.file) == ".ebnf" {
		d, e = langdef.ParseEBNF(b.file, bytes.NewReader(content), "")
	} else {
		d, e = langdef.ParseYAML(b.file, content)
	}
	if e != nil {
		return nil, e
	}
	d.Name = name
	return New(d)
}

// Resolve returns language loaded from definition file if file is not empty,
// or built-in language with given name otherwise.
func Resolve(name, file string) (*Language, error) {
	if file != "" {
		return Load(file)
	}
	if name == "" {
		name = DefaultName
	}
	return Builtin(name)
}
