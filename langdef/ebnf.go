package langdef

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/cgma-lang/cgma/internal/queue"
)

// Names of lexical productions matching insignificant text.
var skipNames = map[string]bool{
	"WhiteSpace":   true,
	"Whitespace":   true,
	"Space":        true,
	"Comment":      true,
	"LineComment":  true,
	"BlockComment": true,
}

// ParseEBNF converts EBNF grammar (as accepted by golang.org/x/exp/ebnf) to definition.
//
// Productions with names starting with an upper case letter are lexical: those referenced
// from syntactic productions become token kinds, others are fragments inlined into token patterns.
// Lexical productions named WhiteSpace, Whitespace, Space, Comment, LineComment, or BlockComment
// define skipped text. Quoted strings in syntactic productions become literal tokens,
// they are declared before other tokens and win ties.
//
// Productions with lower case names are syntactic. Options, repetitions, and groups containing
// alternatives are replaced with helper non-terminals named after the enclosing production
// ("expr#1", "expr#2", ...). Only productions reachable from start are converted.
// Empty start selects the first syntactic production.
func ParseEBNF(name string, r io.Reader, start string) (*Definition, error) {
	g, e := ebnf.Parse(name, r)
	if e != nil {
		return nil, ebnfError(e)
	}

	c := &ebnfConverter{
		g:        g,
		d:        &Definition{Name: baseName(name), Start: start},
		literals: make(map[string]bool),
		tokens:   make(map[string]bool),
		queue:    queue.New[string](),
		helpers:  make(map[string]int),
		regexps:  make(map[string]string),
		visiting: make(map[string]bool),
	}
	e = c.convert()
	if e != nil {
		return nil, e
	}

	log.Debugf("converted EBNF %s: %d token entries, %d productions", name, len(c.d.Tokens), len(c.d.Productions))
	return c.d, nil
}

type ebnfConverter struct {
	g        ebnf.Grammar
	d        *Definition
	names    []string // productions in source order
	literals map[string]bool
	litOrder []string
	tokens   map[string]bool
	queue    *queue.Queue[string]
	pending  []ProductionDef
	helpers  map[string]int
	regexps  map[string]string
	visiting map[string]bool
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (c *ebnfConverter) convert() error {
	c.names = make([]string, 0, len(c.g))
	for name := range c.g {
		c.names = append(c.names, name)
	}
	sort.Slice(c.names, func(i, j int) bool {
		return c.g[c.names[i]].Pos().Offset < c.g[c.names[j]].Pos().Offset
	})

	if c.d.Start == "" {
		for _, name := range c.names {
			if !isLexical(name) {
				c.d.Start = name
				break
			}
		}
	}
	p, f := c.g[c.d.Start]
	if !f || isLexical(c.d.Start) {
		return invalidDefinitionError(c.d.Name, "no syntactic start production %q", c.d.Start)
	}

	c.queue.Push(p.Name.String)
	for !c.queue.IsEmpty() {
		lhs, _ := c.queue.Pop()
		if e := c.production(c.g[lhs]); e != nil {
			return e
		}
	}

	return c.lexicon()
}

func (c *ebnfConverter) production(p *ebnf.Production) error {
	lhs := p.Name.String
	alts, e := c.alternatives(lhs, p.Expr)
	if e != nil {
		return e
	}
	c.add(lhs, alts)
	c.d.Productions = append(c.d.Productions, c.pending...)
	c.pending = c.pending[:0]
	return nil
}

func (c *ebnfConverter) add(lhs string, alts [][]string) {
	for _, rhs := range alts {
		c.d.Productions = append(c.d.Productions, ProductionDef{lhs, strings.Join(rhs, " ")})
	}
}

func (c *ebnfConverter) helper(root string, alts [][]string) string {
	c.helpers[root]++
	name := fmt.Sprintf("%s#%d", root, c.helpers[root])
	for _, rhs := range alts {
		c.pending = append(c.pending, ProductionDef{name, strings.Join(rhs, " ")})
	}
	return name
}

// alternatives converts expression to a list of symbol sequences, nil expression is the empty sequence.
func (c *ebnfConverter) alternatives(root string, x ebnf.Expression) ([][]string, error) {
	if x == nil {
		return [][]string{nil}, nil
	}
	alt, f := x.(ebnf.Alternative)
	if !f {
		seq, e := c.sequence(root, x)
		return [][]string{seq}, e
	}

	res := make([][]string, 0, len(alt))
	for _, item := range alt {
		seq, e := c.sequence(root, item)
		if e != nil {
			return nil, e
		}
		res = append(res, seq)
	}
	return res, nil
}

func (c *ebnfConverter) sequence(root string, x ebnf.Expression) ([]string, error) {
	items := []ebnf.Expression{x}
	if seq, f := x.(ebnf.Sequence); f {
		items = seq
	}

	var res []string
	for _, item := range items {
		switch t := item.(type) {
		case *ebnf.Name:
			if e := c.reference(root, t); e != nil {
				return nil, e
			}
			res = append(res, t.String)

		case *ebnf.Token:
			if e := c.literal(root, t); e != nil {
				return nil, e
			}
			res = append(res, t.String)

		case *ebnf.Group:
			if _, f := t.Body.(ebnf.Alternative); !f && t.Body != nil {
				sub, e := c.sequence(root, t.Body)
				if e != nil {
					return nil, e
				}
				res = append(res, sub...)
				continue
			}
			alts, e := c.alternatives(root, t.Body)
			if e != nil {
				return nil, e
			}
			res = append(res, c.helper(root, alts))

		case ebnf.Alternative:
			alts, e := c.alternatives(root, t)
			if e != nil {
				return nil, e
			}
			res = append(res, c.helper(root, alts))

		case *ebnf.Option:
			alts, e := c.alternatives(root, t.Body)
			if e != nil {
				return nil, e
			}
			res = append(res, c.helper(root, append(alts, nil)))

		case *ebnf.Repetition:
			alts, e := c.alternatives(root, t.Body)
			if e != nil {
				return nil, e
			}
			c.helpers[root]++
			name := fmt.Sprintf("%s#%d", root, c.helpers[root])
			for _, rhs := range alts {
				c.pending = append(c.pending, ProductionDef{name, strings.Join(append(rhs, name), " ")})
			}
			c.pending = append(c.pending, ProductionDef{name, ""})
			res = append(res, name)

		case *ebnf.Range:
			return nil, ebnfConversionError(t.Pos(), root, "character range in syntactic production")

		default:
			return nil, ebnfConversionError(item.Pos(), root, "unsupported expression %T", item)
		}
	}
	return res, nil
}

func (c *ebnfConverter) reference(root string, n *ebnf.Name) error {
	p, f := c.g[n.String]
	if !f {
		return ebnfConversionError(n.Pos(), root, "undefined production %q", n.String)
	}
	if !isLexical(n.String) {
		c.queue.Push(n.String)
		return nil
	}
	if skipNames[n.String] {
		return ebnfConversionError(n.Pos(), root, "skipped production %q used in syntax", n.String)
	}
	if p.Expr == nil {
		return ebnfConversionError(n.Pos(), root, "empty lexical production %q", n.String)
	}
	c.tokens[n.String] = true
	return nil
}

func (c *ebnfConverter) literal(root string, t *ebnf.Token) error {
	if strings.IndexFunc(t.String, unicode.IsSpace) >= 0 {
		return ebnfConversionError(t.Pos(), root, "literal %q contains white space", t.String)
	}
	if !c.literals[t.String] {
		c.literals[t.String] = true
		c.litOrder = append(c.litOrder, t.String)
	}
	return nil
}

// lexicon builds token definitions: literals, then referenced lexical productions, then skipped ones.
func (c *ebnfConverter) lexicon() error {
	for _, lit := range c.litOrder {
		c.d.Tokens = append(c.d.Tokens, TokenDef{Literal: lit})
	}

	var skipped []TokenDef
	for _, name := range c.names {
		if !c.tokens[name] && !skipNames[name] {
			continue
		}
		re, e := c.regexp(name)
		if e != nil {
			return e
		}
		if skipNames[name] {
			skipped = append(skipped, TokenDef{Kind: name, Pattern: re, Skip: true})
		} else {
			c.d.Tokens = append(c.d.Tokens, TokenDef{Kind: name, Pattern: re})
		}
	}
	c.d.Tokens = append(c.d.Tokens, skipped...)
	return nil
}

func (c *ebnfConverter) regexp(name string) (string, error) {
	if re, f := c.regexps[name]; f {
		return re, nil
	}
	p := c.g[name]
	if c.visiting[name] {
		return "", ebnfConversionError(p.Pos(), name, "recursive lexical production")
	}
	if p.Expr == nil {
		return "", ebnfConversionError(p.Pos(), name, "empty lexical production")
	}

	c.visiting[name] = true
	re, e := c.pattern(name, p.Expr)
	delete(c.visiting, name)
	if e != nil {
		return "", e
	}
	c.regexps[name] = re
	return re, nil
}

// pattern converts lexical expression to regular expression.
func (c *ebnfConverter) pattern(prod string, x ebnf.Expression) (string, error) {
	switch t := x.(type) {
	case *ebnf.Token:
		return regexp.QuoteMeta(t.String), nil

	case *ebnf.Range:
		b, bs := utf8.DecodeRuneInString(t.Begin.String)
		e, es := utf8.DecodeRuneInString(t.End.String)
		if bs != len(t.Begin.String) || es != len(t.End.String) || b > e {
			return "", ebnfConversionError(t.Pos(), prod, "invalid character range %q … %q", t.Begin.String, t.End.String)
		}
		return fmt.Sprintf(`[\x{%x}-\x{%x}]`, b, e), nil

	case *ebnf.Name:
		if _, f := c.g[t.String]; !f {
			return "", ebnfConversionError(t.Pos(), prod, "undefined production %q", t.String)
		}
		if !isLexical(t.String) {
			return "", ebnfConversionError(t.Pos(), prod, "syntactic production %q used in lexical production", t.String)
		}
		re, e := c.regexp(t.String)
		return "(?:" + re + ")", e

	case ebnf.Sequence:
		return c.patterns(prod, t, "")

	case ebnf.Alternative:
		re, e := c.patterns(prod, t, "|")
		return "(?:" + re + ")", e

	case *ebnf.Group:
		re, e := c.pattern(prod, t.Body)
		return "(?:" + re + ")", e

	case *ebnf.Option:
		re, e := c.pattern(prod, t.Body)
		return "(?:" + re + ")?", e

	case *ebnf.Repetition:
		re, e := c.pattern(prod, t.Body)
		return "(?:" + re + ")*", e

	case nil:
		return "", nil

	default:
		return "", ebnfConversionError(x.Pos(), prod, "unsupported expression %T", x)
	}
}

func (c *ebnfConverter) patterns(prod string, xs []ebnf.Expression, sep string) (string, error) {
	parts := make([]string, len(xs))
	for i, x := range xs {
		re, e := c.pattern(prod, x)
		if e != nil {
			return "", e
		}
		parts[i] = re
	}
	return strings.Join(parts, sep), nil
}
