// Package grammar defines context-free grammars, compiles them into LL(1) predict tables,
// and holds the compiled (immutable) result used by parser.
package grammar

import (
	"strings"
)

// SymbolKind tells terminals from nonterminals.
type SymbolKind int

const (
	// Unresolved symbols are classified by Compile: names having productions are nonterminals,
	// others must be declared terminals.
	Unresolved SymbolKind = iota
	Terminal
	Nonterminal
)

func (k SymbolKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Nonterminal:
		return "nonterminal"
	default:
		return "symbol"
	}
}

// Symbol is a grammar symbol. Symbols are equal if both kind and name are equal.
type Symbol struct {
	Kind SymbolKind
	Name string
}

// T returns terminal symbol.
func T(name string) Symbol {
	return Symbol{Terminal, name}
}

// N returns nonterminal symbol.
func N(name string) Symbol {
	return Symbol{Nonterminal, name}
}

// S returns unresolved symbol.
func S(name string) Symbol {
	return Symbol{Unresolved, name}
}

func (s Symbol) String() string {
	return s.Name
}

// Production is a rewrite rule LHS → RHS; empty RHS denotes the empty derivation.
type Production struct {
	// ID is a stable production number, the index in Grammar.Productions.
	ID  int
	LHS string
	RHS []Symbol
}

func (p *Production) String() string {
	if len(p.RHS) == 0 {
		return p.LHS + " → ε"
	}
	names := make([]string, len(p.RHS))
	for i, s := range p.RHS {
		names[i] = s.Name
	}
	return p.LHS + " → " + strings.Join(names, " ")
}

// Grammar is a grammar definition consumed by Compile.
// Nonterminals are declared in order of first appearance as LHS.
type Grammar struct {
	Start string

	// Terminals contains terminal alphabet in declaration order,
	// cgma.EndOfInput is implicit and need not be listed.
	Terminals []string

	Productions []Production
}

// Builder collects productions of a grammar, assigning production IDs in order of addition.
type Builder struct {
	g Grammar
}

// New creates a builder for grammar with given start nonterminal and terminal alphabet.
func New(start string, terminals ...string) *Builder {
	return &Builder{Grammar{Start: start, Terminals: terminals}}
}

// Terminals declares additional terminals.
func (b *Builder) Terminals(names ...string) *Builder {
	b.g.Terminals = append(b.g.Terminals, names...)
	return b
}

// Add adds production lhs → rhs.
func (b *Builder) Add(lhs string, rhs ...Symbol) *Builder {
	b.g.Productions = append(b.g.Productions, Production{len(b.g.Productions), lhs, rhs})
	return b
}

// Rule adds production lhs → rhs, where rhs contains whitespace separated unresolved symbol names.
// Empty rhs or "ε" adds the empty production.
func (b *Builder) Rule(lhs, rhs string) *Builder {
	fields := strings.Fields(rhs)
	if len(fields) == 1 && fields[0] == "ε" {
		fields = nil
	}
	symbols := make([]Symbol, len(fields))
	for i, f := range fields {
		symbols[i] = S(f)
	}
	return b.Add(lhs, symbols...)
}

// Grammar returns a copy of collected grammar definition.
func (b *Builder) Grammar() *Grammar {
	g := &Grammar{
		Start:       b.g.Start,
		Terminals:   append([]string(nil), b.g.Terminals...),
		Productions: make([]Production, len(b.g.Productions)),
	}
	for i, p := range b.g.Productions {
		g.Productions[i] = Production{p.ID, p.LHS, append([]Symbol(nil), p.RHS...)}
	}
	return g
}

// Compile is a shortcut for Compile(b.Grammar()).
func (b *Builder) Compile() (*Compiled, error) {
	return Compile(b.Grammar())
}
