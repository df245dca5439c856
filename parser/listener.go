package parser

import (
	"fmt"
	"io"

	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/lexer"
)

// Listener receives derivation steps as parser performs them.
// Listener methods are called synchronously from the parsing goroutine.
type Listener interface {
	// Expand is called when a non-terminal on stack top is replaced with RHS of production p,
	// at is the lookahead token.
	Expand(p *grammar.Production, at *lexer.Token)

	// Match is called when a token matches terminal on stack top.
	Match(t *lexer.Token)

	// Insert is called when expected terminal is popped without matching token at.
	Insert(terminal string, at *lexer.Token)

	// Discard is called for each token skipped in panic mode.
	Discard(t *lexer.Token)

	// Abandon is called when a non-terminal is popped after panic mode, at is the synchronizing token.
	Abandon(nonterminal string, at *lexer.Token)
}

// NopListener ignores all events. Embed it to handle only some of them.
type NopListener struct{}

func (NopListener) Expand(*grammar.Production, *lexer.Token) {}
func (NopListener) Match(*lexer.Token)                       {}
func (NopListener) Insert(string, *lexer.Token)              {}
func (NopListener) Discard(*lexer.Token)                     {}
func (NopListener) Abandon(string, *lexer.Token)             {}

type traceListener struct {
	w io.Writer
}

// Trace returns a Listener writing one line per derivation step to w.
// Write errors are ignored.
func Trace(w io.Writer) Listener {
	return traceListener{w}
}

func (tl traceListener) Expand(p *grammar.Production, at *lexer.Token) {
	fmt.Fprintf(tl.w, "%s\texpand\t%s\n", at.Pos(), p)
}

func (tl traceListener) Match(t *lexer.Token) {
	fmt.Fprintf(tl.w, "%s\tmatch\t%s\n", t.Pos(), t)
}

func (tl traceListener) Insert(terminal string, at *lexer.Token) {
	fmt.Fprintf(tl.w, "%s\tmissing\t%s\n", at.Pos(), terminal)
}

func (tl traceListener) Discard(t *lexer.Token) {
	fmt.Fprintf(tl.w, "%s\tskip\t%s\n", t.Pos(), t)
}

func (tl traceListener) Abandon(nonterminal string, at *lexer.Token) {
	fmt.Fprintf(tl.w, "%s\tabandon\t%s\n", at.Pos(), nonterminal)
}
