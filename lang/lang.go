// Package lang bundles a lexer and a compiled grammar into a ready-to-use language
// and provides built-in languages.
package lang

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/langdef"
	"github.com/cgma-lang/cgma/lexer"
	"github.com/cgma-lang/cgma/parser"
	"github.com/cgma-lang/cgma/source"
)

var log = commonlog.GetLogger("cgma.lang")

// Language is an immutable pair of lexer and compiled grammar, safe for concurrent use.
type Language struct {
	def     *langdef.Definition
	lexer   *lexer.Lexer
	grammar *grammar.Compiled
}

// New builds language from definition. Returns definition errors, lexicon errors,
// or grammar compiler errors (*grammar.ConflictError if the grammar is not LL(1)).
func New(d *langdef.Definition) (*Language, error) {
	defs, e := d.Lexicon()
	if e != nil {
		return nil, e
	}
	l, e := lexer.New(defs)
	if e != nil {
		return nil, e
	}
	g, e := d.Grammar()
	if e != nil {
		return nil, e
	}
	c, e := grammar.Compile(g)
	if e != nil {
		return nil, e
	}

	emitted := make(map[string]bool)
	for _, kind := range l.Kinds() {
		emitted[kind] = true
	}
	for _, term := range c.Terminals()[1:] {
		if !emitted[term] {
			log.Warningf("language %q: terminal %q is never produced by the lexer", d.Name, term)
		}
	}

	log.Debugf("language %q ready: %d terminals, %d non-terminals, %d productions",
		d.Name, len(c.Terminals()), c.NontermCount(), c.ProductionCount())
	return &Language{d, l, c}, nil
}

// Load reads definition file (see langdef.Load) and builds language.
func Load(path string) (*Language, error) {
	d, e := langdef.Load(path)
	if e != nil {
		return nil, e
	}
	return New(d)
}

func (l *Language) Name() string {
	return l.def.Name
}

// Definition returns language definition, it must not be modified.
func (l *Language) Definition() *langdef.Definition {
	return l.def
}

func (l *Language) Lexer() *lexer.Lexer {
	return l.lexer
}

func (l *Language) Grammar() *grammar.Compiled {
	return l.grammar
}

// Tokenize scans source text, name is used in positions.
func (l *Language) Tokenize(name string, text []byte) ([]*lexer.Token, []*lexer.Error) {
	return l.lexer.Tokenize(source.New(name, text))
}

// Parser returns parser for language grammar.
func (l *Language) Parser(opts ...parser.Option) *parser.Parser {
	return parser.New(l.grammar, opts...)
}

// Parse checks tokens against language grammar.
func (l *Language) Parse(ctx context.Context, tokens []*lexer.Token, opts ...parser.Option) (parser.Result, error) {
	return l.Parser(opts...).Parse(ctx, tokens)
}

// CheckOptions control Check.
type CheckOptions struct {
	// ParseOnLexErrors makes Check parse tokens even if lexical errors were found.
	ParseOnLexErrors bool

	// Parser contains parser options.
	Parser []parser.Option

	// Listener receives derivation steps, may be nil.
	Listener parser.Listener
}

// Check runs the whole front end on source text: tokenizes it and, unless lexical errors were found,
// parses the tokens. Returned error is non-nil only if parsing stopped early (see parser.Parser.Parse),
// the report is valid in this case too.
func (l *Language) Check(ctx context.Context, name string, text []byte, opts CheckOptions) (*Report, error) {
	tokens, lexErrors := l.Tokenize(name, text)
	r := &Report{
		Language:  l.Name(),
		Source:    name,
		Tokens:    len(tokens),
		LexErrors: lexErrorViews(lexErrors),
		Errors:    []SyntaxErrorView{},
	}
	if len(lexErrors) > 0 && !opts.ParseOnLexErrors {
		return r, nil
	}

	r.Parsed = true
	res, e := l.Parser(opts.Parser...).ParseWith(ctx, tokens, opts.Listener)
	r.Errors = syntaxErrorViews(parser.Errors(res))
	r.Success = res.Success() && len(lexErrors) == 0 && e == nil
	return r, e
}
