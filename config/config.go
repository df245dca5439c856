// Package config defines settings shared by the cgma command line tool and language server.
//
// Configuration file is TOML (default) or YAML, format is detected by extension:
//
//	language = "cgma"        # built-in language name, see lang.Names
//	definition = ""          # language definition file, overrides language
//	output = "text"          # text or json
//
//	[parser]
//	max_errors = 0           # 0 means no limit
//	recovery = "follow"      # follow or follow-first
//	parse_on_lex_errors = false
//
//	[log]
//	verbosity = 0            # -4 (quiet) to 2 (debug)
//	file = ""                # empty for stderr
//
// Environment variables CGMA_LANGUAGE, CGMA_DEFINITION, CGMA_OUTPUT, CGMA_PARSER_MAX_ERRORS,
// CGMA_PARSER_RECOVERY, and CGMA_LOG_VERBOSITY override file values.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cgma-lang/cgma/internal/strict"
	"github.com/cgma-lang/cgma/parser"
)

const (
	OutputText = "text"
	OutputJSON = "json"

	RecoveryFollow      = "follow"
	RecoveryFollowFirst = "follow-first"
)

// EnvPrefix prefixes environment variable names.
const EnvPrefix = "CGMA_"

type Parser struct {
	MaxErrors        int    `toml:"max_errors" yaml:"max_errors"`
	Recovery         string `toml:"recovery" yaml:"recovery"`
	ParseOnLexErrors bool   `toml:"parse_on_lex_errors" yaml:"parse_on_lex_errors"`
}

type Log struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

type Config struct {
	Language   string `toml:"language" yaml:"language"`
	Definition string `toml:"definition" yaml:"definition"`
	Output     string `toml:"output" yaml:"output"`
	Parser     Parser `toml:"parser" yaml:"parser"`
	Log        Log    `toml:"log" yaml:"log"`
}

// Default returns configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language: "cgma",
		Output:   OutputText,
		Parser:   Parser{Recovery: RecoveryFollow},
	}
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func detectFormat(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatTOML
	}
}

// Load reads configuration file over Default values and validates the result.
// Environment overrides are not applied, see ApplyEnv.
func Load(path string) (*Config, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, readError(e)
	}
	return Parse(path, content)
}

// Parse decodes configuration content, path is used to detect format and in error messages.
func Parse(path string, content []byte) (*Config, error) {
	c := Default()
	if detectFormat(path) == formatYAML {
		if _, e := strict.YAML(content, c); e != nil {
			return nil, decodeError(path, "YAML", e)
		}
	} else {
		unknown, e := strict.TOML(content, c)
		if e != nil {
			return nil, decodeError(path, "TOML", e)
		}
		if len(unknown) > 0 {
			return nil, unknownKeyError(path, unknown)
		}
	}

	if e := c.Validate(); e != nil {
		return nil, e
	}
	return c, nil
}

// ApplyEnv overrides values with environment variables found by lookup (os.LookupEnv if nil).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, s := range []struct {
		key string
		dst *string
	}{
		{"LANGUAGE", &c.Language},
		{"DEFINITION", &c.Definition},
		{"OUTPUT", &c.Output},
		{"PARSER_RECOVERY", &c.Parser.Recovery},
	} {
		if v, f := lookup(EnvPrefix + s.key); f {
			*s.dst = v
		}
	}

	for _, s := range []struct {
		key string
		dst *int
	}{
		{"PARSER_MAX_ERRORS", &c.Parser.MaxErrors},
		{"LOG_VERBOSITY", &c.Log.Verbosity},
	} {
		v, f := lookup(EnvPrefix + s.key)
		if !f {
			continue
		}
		n, e := strconv.Atoi(v)
		if e != nil {
			return invalidValueError(EnvPrefix+s.key, "integer expected, got %q", v)
		}
		*s.dst = n
	}

	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Language == "" && c.Definition == "" {
		return invalidValueError("language", "either language or definition required")
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return invalidValueError("output", "expecting %q or %q, got %q", OutputText, OutputJSON, c.Output)
	}
	if c.Parser.MaxErrors < 0 {
		return invalidValueError("parser.max_errors", "negative value %d", c.Parser.MaxErrors)
	}
	if _, e := c.Recovery(); e != nil {
		return e
	}
	if c.Log.Verbosity < -4 || c.Log.Verbosity > 2 {
		return invalidValueError("log.verbosity", "expecting value from -4 to 2, got %d", c.Log.Verbosity)
	}
	return nil
}

// Recovery returns parser recovery policy.
func (c *Config) Recovery() (parser.Recovery, error) {
	switch c.Parser.Recovery {
	case "", RecoveryFollow:
		return parser.SyncFollow, nil
	case RecoveryFollowFirst:
		return parser.SyncFollowFirst, nil
	default:
		return 0, invalidValueError("parser.recovery", "expecting %q or %q, got %q",
			RecoveryFollow, RecoveryFollowFirst, c.Parser.Recovery)
	}
}

// ParserOptions converts parser settings to parser options.
func (c *Config) ParserOptions() []parser.Option {
	r, _ := c.Recovery()
	return []parser.Option{parser.WithRecovery(r), parser.WithMaxErrors(c.Parser.MaxErrors)}
}
