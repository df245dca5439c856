/*
Package langdef converts language descriptions to lexer token definitions and grammar.Grammar structure.

A language description is a Definition: a lexicon (ordered token definitions) and a list of productions.
Definitions are written in YAML or TOML using the same keys:

	name: expr
	start: E
	tokens:
	  - {kind: space, pattern: '[ \t\r\n]+', skip: true}
	  - {kind: id, pattern: '[A-Za-z_][A-Za-z0-9_]*', max_len: 20}
	  - {literals: ['+', '*', '(', ')']}
	  - {kind: string, pattern: '"[^"\n]*', error: UnterminatedLiteral}
	terminals: []
	productions:
	  - {lhs: E, rhs: "T E'"}
	  - {lhs: "E'", rhs: "+ T E'"}
	  - {lhs: "E'", rhs: ""}

Token definitions are tried with maximal munch, ties go to the definition listed first.
Each entry has either a pattern (RE2 regular expression), a literal, or a list of literals;
kind of a literal token defaults to its text. An entry with error set to a lexical error kind name
(InvalidCharacter, UnterminatedLiteral, UnterminatedComment, MalformedNumber) reports matched text
as a broken lexeme.

Production RHS contains whitespace separated symbol names, empty RHS or "ε" denotes the empty derivation.
Names having productions are non-terminals, all other names must be token kinds
emitted by the lexicon or listed in terminals.

Definitions may also be written in EBNF, see ParseEBNF.
*/
package langdef

import (
	"github.com/tliron/commonlog"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/lexer"
)

var log = commonlog.GetLogger("cgma.langdef")

// TokenDef is one lexicon entry.
type TokenDef struct {
	Kind     string   `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	Pattern  string   `yaml:"pattern,omitempty" toml:"pattern,omitempty" json:"pattern,omitempty"`
	Literal  string   `yaml:"literal,omitempty" toml:"literal,omitempty" json:"literal,omitempty"`
	Literals []string `yaml:"literals,omitempty" toml:"literals,omitempty" json:"literals,omitempty"`
	Skip     bool     `yaml:"skip,omitempty" toml:"skip,omitempty" json:"skip,omitempty"`
	Error    string   `yaml:"error,omitempty" toml:"error,omitempty" json:"error,omitempty"`
	MaxLen   int      `yaml:"max_len,omitempty" toml:"max_len,omitempty" json:"max_len,omitempty"`
}

// ProductionDef is one production, RHS contains whitespace separated symbol names.
type ProductionDef struct {
	LHS string `yaml:"lhs" toml:"lhs" json:"lhs"`
	RHS string `yaml:"rhs" toml:"rhs" json:"rhs"`
}

// Definition is a complete language description.
type Definition struct {
	Name        string          `yaml:"name" toml:"name" json:"name"`
	Start       string          `yaml:"start" toml:"start" json:"start"`
	Tokens      []TokenDef      `yaml:"tokens" toml:"tokens" json:"tokens"`
	Terminals   []string        `yaml:"terminals,omitempty" toml:"terminals,omitempty" json:"terminals,omitempty"`
	Productions []ProductionDef `yaml:"productions" toml:"productions" json:"productions"`
}

// Validate checks that required parts of definition are present.
// It does not compile patterns or grammar, see Lexicon and Grammar.
func (d *Definition) Validate() error {
	switch {
	case d.Name == "":
		return invalidDefinitionError("definition", "name is missing")
	case d.Start == "":
		return invalidDefinitionError(d.Name, "start non-terminal is missing")
	case len(d.Tokens) == 0:
		return invalidDefinitionError(d.Name, "no token definitions")
	case len(d.Productions) == 0:
		return invalidDefinitionError(d.Name, "no productions")
	}
	for i, p := range d.Productions {
		if p.LHS == "" {
			return invalidDefinitionError(d.Name, "production #%d has no LHS", i)
		}
	}
	return nil
}

// Lexicon converts token entries to lexer definitions, expanding literal lists.
func (d *Definition) Lexicon() ([]lexer.TokenDef, error) {
	var res []lexer.TokenDef
	for i, td := range d.Tokens {
		code := 0
		if td.Error != "" {
			var f bool
			code, f = lexer.KindCode(td.Error)
			if !f {
				return nil, tokenDefError(d.Name, i, "unknown error kind %q", td.Error)
			}
		}

		if len(td.Literals) == 0 {
			res = append(res, lexer.TokenDef{
				Kind:    td.Kind,
				Pattern: td.Pattern,
				Literal: td.Literal,
				Skip:    td.Skip,
				Error:   code,
				MaxLen:  td.MaxLen,
			})
			continue
		}

		if td.Pattern != "" || td.Literal != "" || td.Kind != "" {
			return nil, tokenDefError(d.Name, i, "literals cannot be combined with kind, pattern, or literal")
		}
		for _, lit := range td.Literals {
			res = append(res, lexer.TokenDef{Literal: lit, Skip: td.Skip, Error: code, MaxLen: td.MaxLen})
		}
	}
	return res, nil
}

// Grammar converts productions to grammar definition.
// Terminal alphabet consists of kinds emitted by lexicon in declaration order followed by extra terminals.
func (d *Definition) Grammar() (*grammar.Grammar, error) {
	if e := d.Validate(); e != nil {
		return nil, e
	}

	defs, e := d.Lexicon()
	if e != nil {
		return nil, e
	}

	kinds := emittedKinds(defs)
	b := grammar.New(d.Start, kinds...)
	seen := make(map[string]bool, len(kinds))
	for _, name := range kinds {
		seen[name] = true
	}
	for _, name := range d.Terminals {
		if name != cgma.EndOfInput && !seen[name] {
			seen[name] = true
			b.Terminals(name)
		}
	}
	for _, p := range d.Productions {
		b.Rule(p.LHS, p.RHS)
	}
	return b.Grammar(), nil
}

// emittedKinds returns distinct kinds of significant tokens, the same list lexer.Lexer.Kinds returns.
func emittedKinds(defs []lexer.TokenDef) []string {
	var res []string
	seen := make(map[string]bool)
	for _, td := range defs {
		if td.Skip || td.Error != 0 {
			continue
		}
		kind := td.Kind
		if kind == "" {
			kind = td.Literal
		}
		if kind != "" && !seen[kind] {
			seen[kind] = true
			res = append(res, kind)
		}
	}
	return res
}
