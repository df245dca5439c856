package grammar

import (
	"github.com/cgma-lang/cgma/internal/termset"
)

// Compiled is an LL(1) grammar with FIRST sets, FOLLOW sets, and predict table.
// Compiled is immutable and safe for concurrent use; slices returned by its methods must not be modified.
//
// Symbols are coded as ints: terminal i is coded as i (0 is cgma.EndOfInput,
// then terminals in declaration order), non-terminal j is coded as ^j (i.e. -j - 1,
// non-terminals are numbered in declaration order).
type Compiled struct {
	start     int
	terms     []string
	termIndex map[string]int
	nonterms  []string
	ntIndex   map[string]int

	prods []Production
	rhs   [][]int
	lhs   []int
	byLHS [][]int

	nullable []bool
	first    []termset.Set
	follow   []termset.Set
	predict  [][]int
	expected [][]int
}

// IsTerminal reports whether coded symbol is a terminal.
func IsTerminal(symbol int) bool {
	return symbol >= 0
}

// NontermSymbol returns code of j-th non-terminal.
func NontermSymbol(j int) int {
	return ^j
}

// NontermIndex returns non-terminal index of coded non-terminal symbol.
func NontermIndex(symbol int) int {
	return ^symbol
}

// StartSymbol returns coded start non-terminal.
func (c *Compiled) StartSymbol() int {
	return NontermSymbol(c.start)
}

// Start returns start non-terminal name.
func (c *Compiled) Start() string {
	return c.nonterms[c.start]
}

// TermIndex returns index of terminal kind.
func (c *Compiled) TermIndex(kind string) (int, bool) {
	i, f := c.termIndex[kind]
	return i, f
}

func (c *Compiled) TermName(i int) string {
	return c.terms[i]
}

func (c *Compiled) NontermName(j int) string {
	return c.nonterms[j]
}

// Terminals returns terminal names in index order, starting with cgma.EndOfInput.
func (c *Compiled) Terminals() []string {
	return append([]string(nil), c.terms...)
}

// Nonterminals returns non-terminal names in declaration order.
func (c *Compiled) Nonterminals() []string {
	return append([]string(nil), c.nonterms...)
}

// NontermCount returns number of non-terminals.
func (c *Compiled) NontermCount() int {
	return len(c.nonterms)
}

// ProductionCount returns number of productions.
func (c *Compiled) ProductionCount() int {
	return len(c.prods)
}

// Production returns production with given id, its RHS symbols are resolved.
func (c *Compiled) Production(id int) *Production {
	return &c.prods[id]
}

// Expansion returns coded RHS symbols of production with given id.
func (c *Compiled) Expansion(id int) []int {
	return c.rhs[id]
}

// Predict returns id of production predicted for j-th non-terminal by i-th terminal or -1.
// i may be out of range (unknown token kind), then -1 is returned.
func (c *Compiled) Predict(j, i int) int {
	if i < 0 || i >= len(c.terms) {
		return -1
	}
	return c.predict[j][i]
}

// InFirst reports whether i-th terminal belongs to FIRST of j-th non-terminal.
func (c *Compiled) InFirst(j, i int) bool {
	return c.first[j].Has(i)
}

// InFollow reports whether i-th terminal belongs to FOLLOW of j-th non-terminal.
func (c *Compiled) InFollow(j, i int) bool {
	return c.follow[j].Has(i)
}

// Expected returns indexes of terminals acceptable when j-th non-terminal is expected:
// its FIRST set, plus its FOLLOW set if it is nullable. Indexes are in increasing order.
func (c *Compiled) Expected(j int) []int {
	return c.expected[j]
}

// First returns FIRST set of named non-terminal in terminal index order.
func (c *Compiled) First(name string) []string {
	j, f := c.ntIndex[name]
	if !f {
		return nil
	}
	return c.names(c.first[j])
}

// Follow returns FOLLOW set of named non-terminal in terminal index order.
func (c *Compiled) Follow(name string) []string {
	j, f := c.ntIndex[name]
	if !f {
		return nil
	}
	return c.names(c.follow[j])
}

// Nullable reports whether named non-terminal derives the empty string.
func (c *Compiled) Nullable(name string) bool {
	j, f := c.ntIndex[name]
	return f && c.nullable[j]
}

// PredictFor returns production predicted for named non-terminal by named terminal.
func (c *Compiled) PredictFor(nonterm, term string) (*Production, bool) {
	j, f := c.ntIndex[nonterm]
	if !f {
		return nil, false
	}
	i, f := c.termIndex[term]
	if !f || c.predict[j][i] < 0 {
		return nil, false
	}
	return &c.prods[c.predict[j][i]], true
}

func (c *Compiled) names(s termset.Set) []string {
	items := s.Items()
	res := make([]string, len(items))
	for k, i := range items {
		res[k] = c.terms[i]
	}
	return res
}

// TermNames converts terminal indexes to names.
func (c *Compiled) TermNames(indexes []int) []string {
	res := make([]string, len(indexes))
	for k, i := range indexes {
		res[k] = c.terms[i]
	}
	return res
}

// Tables is a plain snapshot of compiled grammar suitable for printing and comparison.
type Tables struct {
	Start        string                    `json:"start"`
	Terminals    []string                  `json:"terminals"`
	Nonterminals []string                  `json:"nonterminals"`
	Productions  []string                  `json:"productions"`
	Nullable     map[string]bool           `json:"nullable"`
	First        map[string][]string       `json:"first"`
	Follow       map[string][]string       `json:"follow"`
	Predict      map[string]map[string]int `json:"predict"`
}

// Tables returns a fresh snapshot of compiled tables.
func (c *Compiled) Tables() *Tables {
	t := &Tables{
		Start:        c.Start(),
		Terminals:    c.Terminals(),
		Nonterminals: c.Nonterminals(),
		Productions:  make([]string, len(c.prods)),
		Nullable:     make(map[string]bool, len(c.nonterms)),
		First:        make(map[string][]string, len(c.nonterms)),
		Follow:       make(map[string][]string, len(c.nonterms)),
		Predict:      make(map[string]map[string]int, len(c.nonterms)),
	}
	for i := range c.prods {
		t.Productions[i] = c.prods[i].String()
	}
	for j, name := range c.nonterms {
		t.Nullable[name] = c.nullable[j]
		t.First[name] = c.names(c.first[j])
		t.Follow[name] = c.names(c.follow[j])
		row := make(map[string]int)
		for i, id := range c.predict[j] {
			if id >= 0 {
				row[c.terms[i]] = id
			}
		}
		t.Predict[name] = row
	}
	return t
}
