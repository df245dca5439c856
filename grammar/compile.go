package grammar

import (
	"github.com/tliron/commonlog"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/internal/queue"
	"github.com/cgma-lang/cgma/internal/termset"
)

var log = commonlog.GetLogger("cgma.grammar")

// Compile checks grammar definition and builds FIRST sets, FOLLOW sets, and LL(1) predict table.
// Returns *ConflictError listing all conflicts if the grammar is not LL(1),
// or *cgma.Error if the definition is malformed. Never returns partial result.
func Compile(g *Grammar) (*Compiled, error) {
	c := &Compiled{}
	e := c.index(g)
	e = c.resolve(g, e)
	e = c.checkReachable(e)
	e = c.buildFirst(e)
	e = c.checkProductive(e)
	e = c.buildFollow(e)
	e = c.buildPredict(e)
	if e != nil {
		return nil, e
	}

	log.Debugf("compiled grammar %q: %d terminals, %d non-terminals, %d productions",
		c.Start(), len(c.terms), len(c.nonterms), len(c.prods))
	return c, nil
}

func (c *Compiled) index(g *Grammar) error {
	if len(g.Productions) == 0 {
		return noProductionsError()
	}

	c.terms = []string{cgma.EndOfInput}
	c.termIndex = map[string]int{cgma.EndOfInput: 0}
	for _, name := range g.Terminals {
		if name == cgma.EndOfInput {
			continue
		}
		if _, f := c.termIndex[name]; f {
			return duplicateTerminalError(name)
		}
		c.termIndex[name] = len(c.terms)
		c.terms = append(c.terms, name)
	}

	c.ntIndex = make(map[string]int)
	c.lhs = make([]int, len(g.Productions))
	for i, p := range g.Productions {
		if p.ID != i {
			return productionIDError(i, p.ID)
		}
		if _, f := c.termIndex[p.LHS]; f {
			return symbolClashError(p.LHS)
		}
		j, f := c.ntIndex[p.LHS]
		if !f {
			j = len(c.nonterms)
			c.ntIndex[p.LHS] = j
			c.nonterms = append(c.nonterms, p.LHS)
			c.byLHS = append(c.byLHS, nil)
		}
		c.lhs[i] = j
		c.byLHS[j] = append(c.byLHS[j], i)
	}

	start, f := c.ntIndex[g.Start]
	if !f {
		return unknownStartError(g.Start)
	}
	c.start = start
	return nil
}

func (c *Compiled) resolve(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	var undefined []string
	seen := make(map[string]bool)
	c.prods = make([]Production, len(g.Productions))
	c.rhs = make([][]int, len(g.Productions))
	for i, p := range g.Productions {
		rhs := make([]Symbol, len(p.RHS))
		coded := make([]int, len(p.RHS))
		for k, s := range p.RHS {
			ti, isTerm := c.termIndex[s.Name]
			nj, isNonterm := c.ntIndex[s.Name]
			switch {
			case isNonterm && s.Kind != Terminal:
				rhs[k] = N(s.Name)
				coded[k] = NontermSymbol(nj)
			case isTerm && s.Kind != Nonterminal:
				rhs[k] = T(s.Name)
				coded[k] = ti
			default:
				if !seen[s.Name] {
					seen[s.Name] = true
					undefined = append(undefined, s.Name)
				}
			}
		}
		c.prods[i] = Production{i, p.LHS, rhs}
		c.rhs[i] = coded
	}

	if len(undefined) > 0 {
		return undefinedSymbolError(undefined)
	}
	return nil
}

func (c *Compiled) checkReachable(e error) error {
	if e != nil {
		return e
	}

	q := queue.New(c.start)
	for !q.IsEmpty() {
		j, _ := q.Pop()
		for _, pi := range c.byLHS[j] {
			for _, sym := range c.rhs[pi] {
				if sym < 0 {
					q.Push(^sym)
				}
			}
		}
	}

	var names []string
	for j, name := range c.nonterms {
		if !q.Seen(j) {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return unreachableError(names)
	}
	return nil
}

// addFirst adds FIRST of symbol sequence to dst.
// Returns whether the whole sequence is nullable and whether dst has changed.
func (c *Compiled) addFirst(dst termset.Set, seq []int) (nullable, changed bool) {
	for _, sym := range seq {
		if IsTerminal(sym) {
			return false, dst.Add(sym) || changed
		}
		j := NontermIndex(sym)
		changed = dst.Union(c.first[j]) || changed
		if !c.nullable[j] {
			return false, changed
		}
	}
	return true, changed
}

// buildFirst computes FIRST sets and nullable flags by fixed-point iteration.
// Sets only grow and are bounded by the terminal alphabet, so the loop terminates.
func (c *Compiled) buildFirst(e error) error {
	if e != nil {
		return e
	}

	c.nullable = make([]bool, len(c.nonterms))
	c.first = make([]termset.Set, len(c.nonterms))
	for j := range c.first {
		c.first[j] = termset.New(len(c.terms))
	}

	passes := 0
	for changed := true; changed; passes++ {
		changed = false
		for pi, rhs := range c.rhs {
			a := c.lhs[pi]
			nullable, grown := c.addFirst(c.first[a], rhs)
			if nullable && !c.nullable[a] {
				c.nullable[a] = true
				grown = true
			}
			changed = changed || grown
		}
	}
	log.Debugf("FIRST sets converged in %d passes", passes)
	return nil
}

func (c *Compiled) checkProductive(e error) error {
	if e != nil {
		return e
	}

	productive := make([]bool, len(c.nonterms))
	for changed := true; changed; {
		changed = false
		for pi, rhs := range c.rhs {
			a := c.lhs[pi]
			if productive[a] {
				continue
			}
			all := true
			for _, sym := range rhs {
				if sym < 0 && !productive[^sym] {
					all = false
					break
				}
			}
			if all {
				productive[a] = true
				changed = true
			}
		}
	}

	var names []string
	for j, p := range productive {
		if !p {
			names = append(names, c.nonterms[j])
		}
	}
	if len(names) > 0 {
		return unproductiveError(names)
	}
	return nil
}

// buildFollow computes FOLLOW sets by fixed-point iteration, FOLLOW(start) contains cgma.EndOfInput.
func (c *Compiled) buildFollow(e error) error {
	if e != nil {
		return e
	}

	c.follow = make([]termset.Set, len(c.nonterms))
	for j := range c.follow {
		c.follow[j] = termset.New(len(c.terms))
	}
	c.follow[c.start].Add(0)

	passes := 0
	for changed := true; changed; passes++ {
		changed = false
		for pi, rhs := range c.rhs {
			a := c.lhs[pi]
			for k, sym := range rhs {
				if sym >= 0 {
					continue
				}
				b := ^sym
				restNullable, grown := c.addFirst(c.follow[b], rhs[k+1:])
				if restNullable {
					grown = c.follow[b].Union(c.follow[a]) || grown
				}
				changed = changed || grown
			}
		}
	}
	log.Debugf("FOLLOW sets converged in %d passes", passes)
	return nil
}

// predictSet returns PREDICT set of production: FIRST of its RHS, plus FOLLOW of its LHS if RHS is nullable.
func (c *Compiled) predictSet(pi int) termset.Set {
	res := termset.New(len(c.terms))
	if nullable, _ := c.addFirst(res, c.rhs[pi]); nullable {
		res.Union(c.follow[c.lhs[pi]])
	}
	return res
}

// buildPredict fills predict table, examining every production of every non-terminal.
// Conflicts are collected in non-terminal declaration order, then production order, then terminal order.
func (c *Compiled) buildPredict(e error) error {
	if e != nil {
		return e
	}

	var conflicts []Conflict
	c.predict = make([][]int, len(c.nonterms))
	c.expected = make([][]int, len(c.nonterms))
	for j := range c.nonterms {
		row := make([]int, len(c.terms))
		for i := range row {
			row[i] = -1
		}
		for _, pi := range c.byLHS[j] {
			for _, i := range c.predictSet(pi).Items() {
				switch cur := row[i]; {
				case cur < 0:
					row[i] = pi
				case cur != pi:
					conflicts = append(conflicts, Conflict{c.nonterms[j], c.terms[i], cur, pi})
				}
			}
		}
		c.predict[j] = row

		expected := c.first[j].Copy()
		if c.nullable[j] {
			expected.Union(c.follow[j])
		}
		c.expected[j] = expected.Items()
	}

	if len(conflicts) > 0 {
		return conflictError(conflicts)
	}
	return nil
}
