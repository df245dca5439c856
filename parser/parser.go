// Package parser defines LL(1) parser engine.
package parser

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/lexer"
	"github.com/cgma-lang/cgma/source"
)

// Recovery selects the synchronizing set used in panic mode.
type Recovery int

const (
	// SyncFollow discards tokens until one in FOLLOW of the failed non-terminal, then pops it.
	SyncFollow Recovery = iota

	// SyncFollowFirst also stops at a token in FIRST of the failed non-terminal
	// (after discarding at least one token) and retries it instead of popping.
	SyncFollowFirst
)

const eoi = 0

// cancelCheckMask sets how often context is checked, in parser steps.
const cancelCheckMask = 0xff

// Option configures Parser.
type Option func(*Parser)

// WithRecovery sets panic mode synchronizing policy, SyncFollow by default.
func WithRecovery(r Recovery) Option {
	return func(p *Parser) {
		p.recovery = r
	}
}

// WithMaxErrors stops parsing after n syntax errors, 0 means no limit.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// Parser is a table-driven LL(1) parser for a compiled grammar.
// Parser is immutable and safe for concurrent use.
type Parser struct {
	grammar   *grammar.Compiled
	recovery  Recovery
	maxErrors int
}

func New(g *grammar.Compiled, opts ...Option) *Parser {
	p := &Parser{grammar: g}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse checks token sequence against grammar using default options.
// tokens should end with end of input token, one is assumed otherwise.
func Parse(tokens []*lexer.Token, g *grammar.Compiled) Result {
	r, _ := New(g).Parse(context.Background(), tokens)
	return r
}

// Parse checks token sequence against grammar.
// Syntax errors are collected into Rejected result.
// Returned error is non-nil only if parsing stopped early (context canceled, error limit reached),
// in that case result contains errors found so far.
func (p *Parser) Parse(ctx context.Context, tokens []*lexer.Token) (Result, error) {
	return p.ParseWith(ctx, tokens, nil)
}

// ParseWith is Parse reporting derivation steps to l. l may be nil.
func (p *Parser) ParseWith(ctx context.Context, tokens []*lexer.Token, l Listener) (Result, error) {
	if l == nil {
		l = NopListener{}
	}
	if len(tokens) == 0 || !tokens[len(tokens)-1].IsEoi() {
		tokens = append(tokens[:len(tokens):len(tokens)], syntheticEoi(tokens))
	}
	r := &run{
		Parser:   p,
		tokens:   tokens,
		stack:    newSymbolStack(64),
		listener: l,
	}
	e := r.parse(ctx)
	return r.result(), e
}

// syntheticEoi returns end of input token positioned right after the last token.
func syntheticEoi(tokens []*lexer.Token) *lexer.Token {
	if len(tokens) == 0 {
		return lexer.NewToken(cgma.EndOfInput, "", source.NewPos("", 0, 1, 1))
	}
	last := tokens[len(tokens)-1]
	pos := last.Pos()
	text := last.Text()
	line, col := pos.Line(), pos.Col()
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		line += strings.Count(text, "\n")
		col = 1
		text = text[i+1:]
	}
	return lexer.NewToken(cgma.EndOfInput, "", source.NewPos(pos.SourceName(),
		pos.Offset()+len(last.Text()), line, col+utf8.RuneCountInString(text)))
}

type run struct {
	*Parser
	tokens   []*lexer.Token
	cursor   int
	stack    *symbolStack
	errors   []*SyntaxError
	listener Listener
}

// lookahead returns current token and its terminal index, -1 if its kind is unknown to the grammar.
func (r *run) lookahead() (*lexer.Token, int) {
	t := r.tokens[r.cursor]
	i, f := r.grammar.TermIndex(t.Kind())
	if !f {
		i = -1
	}
	return t, i
}

func (r *run) advance() {
	if r.cursor < len(r.tokens)-1 {
		r.cursor++
	}
}

func (r *run) result() Result {
	if len(r.errors) == 0 {
		return Accepted{}
	}
	return &Rejected{r.errors}
}

func (r *run) report(t *lexer.Token, expected []int) {
	r.errors = append(r.errors, syntaxError(t, r.grammar.TermNames(expected)))
}

func (r *run) parse(ctx context.Context) error {
	g := r.grammar
	r.stack.Push(eoi, g.StartSymbol())
	idle := 0

	for step := 0; !r.stack.IsEmpty(); step++ {
		if step&cancelCheckMask == 0 {
			if e := ctx.Err(); e != nil {
				return canceledError(e)
			}
		}
		if r.maxErrors > 0 && len(r.errors) >= r.maxErrors {
			return errorLimitError(r.maxErrors)
		}

		top := r.stack.Top()
		la, li := r.lookahead()

		if grammar.IsTerminal(top) {
			idle = 0
			r.stack.Drop()
			switch {
			case top == li:
				r.listener.Match(la)
				if top != eoi {
					r.advance()
				}
			case top == eoi:
				r.errors = append(r.errors, trailingInputError(la))
				r.stack.Clear()
			case la.IsEoi():
				r.report(la, []int{top})
				r.stack.Clear()
			default:
				r.report(la, []int{top})
				r.listener.Insert(g.TermName(top), la)
			}
			continue
		}

		j := grammar.NontermIndex(top)
		if id := g.Predict(j, li); id >= 0 {
			r.stack.Drop()
			rhs := g.Expansion(id)
			r.stack.PushReversed(rhs)
			r.listener.Expand(g.Production(id), la)
			if len(rhs) == 0 {
				idle = 0
			} else if idle++; idle > g.NontermCount() {
				return noProgressError(la, g.NontermName(j))
			}
			continue
		}

		idle = 0
		r.report(la, g.Expected(j))
		if la.IsEoi() {
			r.stack.Clear()
			continue
		}
		r.recover(j)
	}

	return nil
}

// recover discards tokens in panic mode after j-th non-terminal failed to match.
func (r *run) recover(j int) {
	g := r.grammar
	skipped := 0
	for {
		la, li := r.lookahead()
		if la.IsEoi() {
			break
		}
		if r.recovery == SyncFollowFirst && skipped > 0 && g.InFirst(j, li) {
			return
		}
		if g.InFollow(j, li) {
			break
		}
		r.listener.Discard(la)
		r.advance()
		skipped++
	}

	la, _ := r.lookahead()
	r.stack.Drop()
	r.listener.Abandon(g.NontermName(j), la)
}
