package langdef

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cgma-lang/cgma/internal/strict"
)

// ParseYAML decodes YAML definition, name is used in error messages and as default definition name.
// Unknown keys are reported as errors.
func ParseYAML(name string, content []byte) (*Definition, error) {
	d := &Definition{}
	empty, e := strict.YAML(content, d)
	if e != nil {
		return nil, decodeError(name, "YAML", e)
	}
	if empty {
		return nil, invalidDefinitionError(name, "empty document")
	}
	return finish(name, d)
}

// ParseTOML decodes TOML definition, name is used in error messages and as default definition name.
// Unknown keys are reported as errors.
func ParseTOML(name string, content []byte) (*Definition, error) {
	d := &Definition{}
	unknown, e := strict.TOML(content, d)
	if e != nil {
		return nil, decodeError(name, "TOML", e)
	}
	if len(unknown) > 0 {
		return nil, unknownKeyError(name, unknown)
	}
	return finish(name, d)
}

// Load reads definition file, format is detected by extension:
// .yaml or .yml for YAML, .toml for TOML, .ebnf for EBNF (start symbol is the first syntactic production).
func Load(path string) (*Definition, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, readError(e)
	}

	var d *Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, e = ParseYAML(path, content)
	case ".toml":
		d, e = ParseTOML(path, content)
	case ".ebnf":
		d, e = ParseEBNF(path, bytes.NewReader(content), "")
	default:
		return nil, formatError(path)
	}
	if e != nil {
		return nil, e
	}

	log.Infof("loaded definition %q from %s: %d token entries, %d productions", d.Name, path, len(d.Tokens), len(d.Productions))
	return d, nil
}

// finish sets default name and validates decoded definition.
func finish(name string, d *Definition) (*Definition, error) {
	if d.Name == "" {
		d.Name = baseName(name)
	}
	if e := d.Validate(); e != nil {
		return nil, e
	}
	return d, nil
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
