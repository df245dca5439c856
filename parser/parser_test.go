package parser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/internal/test"
	"github.com/cgma-lang/cgma/lexer"
	"github.com/cgma-lang/cgma/source"
)

var testDefs = []lexer.TokenDef{
	{Pattern: `[ \t\r\n]+`, Skip: true},
	{Kind: "id", Pattern: `[a-z][a-z0-9]*`},
	{Literal: "+"},
	{Literal: "*"},
	{Literal: "("},
	{Literal: ")"},
	{Literal: "?"},
}

func exprGrammar(t *testing.T) *grammar.Compiled {
	g, e := grammar.New("E", "+", "*", "(", ")", "id").
		Rule("E", "T E'").
		Rule("E'", "+ T E'").
		Rule("E'", "").
		Rule("T", "F T'").
		Rule("T'", "* F T'").
		Rule("T'", "").
		Rule("F", "( E )").
		Rule("F", "id").
		Compile()
	test.ExpectNoError(t, e)
	return g
}

func tokens(t *testing.T, text string) []*lexer.Token {
	l, e := lexer.New(testDefs)
	test.ExpectNoError(t, e)
	res, errs := l.Tokenize(source.New("", []byte(text)))
	test.Assert(t, len(errs) == 0, "unexpected lexical errors: %v", errs)
	return res
}

type errorSample struct {
	code     int
	col      int
	actual   string
	expected []string
}

func checkErrors(t *testing.T, src string, samples []errorSample, errs []*SyntaxError) {
	t.Helper()
	if len(errs) != len(samples) {
		t.Fatalf("%q: expecting %d errors, got %d: %v", src, len(samples), len(errs), errs)
	}
	for i, s := range samples {
		e := errs[i]
		test.ExpectInt(t, s.code, e.Code)
		test.ExpectInt(t, s.col, e.Pos.Col())
		test.ExpectString(t, s.actual, e.Actual)
		test.ExpectStrings(t, s.expected, e.Expected)
	}
}

func TestAccepted(t *testing.T) {
	g := exprGrammar(t)
	samples := []string{
		"a",
		"a + b * c",
		"(a)",
		"a * (b + c) * d",
		"((a + b) * (c))",
	}

	for _, src := range samples {
		r := Parse(tokens(t, src), g)
		test.Assert(t, r.Success(), "%q: expecting success, got %v", src, Errors(r))
		_, f := r.(Accepted)
		test.Assert(t, f, "%q: expecting Accepted, got %T", src, r)
	}
}

func TestRejected(t *testing.T) {
	g := exprGrammar(t)
	end := cgma.EndOfInput
	samples := []struct {
		src    string
		errors []errorSample
	}{
		{"a + * c", []errorSample{
			{UnexpectedTokenError, 5, "*", []string{"(", "id"}},
		}},
		{"", []errorSample{
			{UnexpectedEndOfInputError, 1, end, []string{"(", "id"}},
		}},
		{"a +", []errorSample{
			{UnexpectedEndOfInputError, 4, end, []string{"(", "id"}},
		}},
		{"(a", []errorSample{
			{UnexpectedEndOfInputError, 3, end, []string{")"}},
		}},
		{"a b", []errorSample{
			{UnexpectedTokenError, 3, "id", []string{end, "+", "*", ")"}},
		}},
		{"a ? b", []errorSample{
			{UnexpectedTokenError, 3, "?", []string{end, "+", "*", ")"}},
		}},
		{"(a (b", []errorSample{
			{UnexpectedTokenError, 4, "(", []string{end, "+", "*", ")"}},
			{UnexpectedEndOfInputError, 6, end, []string{")"}},
		}},
		{"a) + b", []errorSample{
			{UnexpectedEndOfInputError, 2, ")", []string{end}},
		}},
		{"a b)", []errorSample{
			{UnexpectedTokenError, 3, "id", []string{end, "+", "*", ")"}},
			{UnexpectedEndOfInputError, 4, ")", []string{end}},
		}},
	}

	for _, s := range samples {
		r := Parse(tokens(t, s.src), g)
		test.Assert(t, !r.Success(), "%q: expecting failure", s.src)
		checkErrors(t, s.src, s.errors, Errors(r))
	}
}

func TestErrorMessage(t *testing.T) {
	g := exprGrammar(t)
	errs := Errors(Parse(tokens(t, "a + * c"), g))
	test.ExpectInt(t, 1, len(errs))
	test.ExpectString(t, `unexpected "*", expecting one of "(", "id" at line 1 col 5`, errs[0].Error())
	test.ExpectString(t, "UnexpectedToken", errs[0].Kind())

	errs = Errors(Parse(tokens(t, "a b"), g))
	test.ExpectInt(t, 1, len(errs))
	test.Assert(t, strings.HasPrefix(errs[0].Error(), `unexpected id "b", expecting one of`), "got %q", errs[0].Error())

	errs = Errors(Parse(tokens(t, "(a"), g))
	test.ExpectInt(t, 1, len(errs))
	test.ExpectString(t, `unexpected end of input, expecting ")" at line 1 col 3`, errs[0].Error())
	test.ExpectString(t, "UnexpectedEndOfInput", errs[0].Kind())

	errs = Errors(Parse(tokens(t, "a) + b"), g))
	test.ExpectInt(t, 1, len(errs))
	test.ExpectString(t, `tokens remaining after parsing, ")" found instead of end of input at line 1 col 2`, errs[0].Error())
	test.ExpectString(t, "UnexpectedEndOfInput", errs[0].Kind())
	test.ExpectString(t, ")", errs[0].Text)
}

func TestNonNullableStartOnEmptyInput(t *testing.T) {
	g := exprGrammar(t)
	src := source.New("empty", nil)
	r := Parse([]*lexer.Token{lexer.EoiToken(src)}, g)
	errs := Errors(r)
	test.ExpectInt(t, 1, len(errs))
	test.ExpectInt(t, UnexpectedEndOfInputError, errs[0].Code)
	test.ExpectString(t, "empty", errs[0].Pos.SourceName())
}

func TestNullableStartOnEmptyInput(t *testing.T) {
	g, e := grammar.New("L", "x").Rule("L", "x L").Rule("L", "").Compile()
	test.ExpectNoError(t, e)
	test.Assert(t, Parse(tokens(t, ""), g).Success(), "expecting success")
	test.Assert(t, Parse(nil, g).Success(), "expecting success without end of input token")
}

func TestMissingTerminal(t *testing.T) {
	g, e := grammar.New("S", "a", "b", "c").Rule("S", "a b c").Compile()
	test.ExpectNoError(t, e)
	toks := []*lexer.Token{
		lexer.NewToken("a", "a", source.NewPos("", 0, 1, 1)),
		lexer.NewToken("c", "c", source.NewPos("", 2, 1, 3)),
	}
	var l recorder
	r, e := New(g).ParseWith(context.Background(), toks, &l)
	test.ExpectNoError(t, e)
	checkErrors(t, "a c", []errorSample{{UnexpectedTokenError, 3, "c", []string{"b"}}}, Errors(r))
	test.ExpectStrings(t, []string{
		"expand S → a b c",
		"match a",
		"insert b at c",
		"match c",
		"match " + cgma.EndOfInput,
	}, l.events)
}

func TestSyntheticEndOfInput(t *testing.T) {
	g := exprGrammar(t)
	toks := tokens(t, "a +")
	toks = toks[:len(toks)-1]
	errs := Errors(Parse(toks, g))
	test.ExpectInt(t, 1, len(errs))
	test.ExpectInt(t, UnexpectedEndOfInputError, errs[0].Code)
	test.ExpectInt(t, 4, errs[0].Pos.Col())
	test.ExpectInt(t, 3, errs[0].Pos.Offset())
	test.ExpectInt(t, 2, len(toks))
}

func TestSyntheticEndOfInputAfterMultilineToken(t *testing.T) {
	g, e := grammar.New("S", "a", "s").Rule("S", "a s s").Compile()
	test.ExpectNoError(t, e)
	toks := []*lexer.Token{
		lexer.NewToken("a", "a", source.NewPos("", 0, 1, 1)),
		lexer.NewToken("s", "\"x\ny\nzé\"", source.NewPos("", 2, 1, 3)),
	}
	errs := Errors(Parse(toks, g))
	test.ExpectInt(t, 1, len(errs))
	test.ExpectInt(t, UnexpectedEndOfInputError, errs[0].Code)
	test.ExpectInt(t, 3, errs[0].Pos.Line())
	test.ExpectInt(t, 4, errs[0].Pos.Col())
	test.ExpectInt(t, 11, errs[0].Pos.Offset())
}

func TestRecoveryPolicy(t *testing.T) {
	g := exprGrammar(t)
	samples := []struct {
		recovery Recovery
		src      string
		events   []string
	}{
		{SyncFollow, "a + * c", []string{"skip *", "skip id(c)", "abandon T at " + cgma.EndOfInput}},
		{SyncFollowFirst, "a + * c", []string{"skip *"}},
		{SyncFollowFirst, "a * + b", []string{"abandon F at +"}},
	}

	for _, s := range samples {
		var l recorder
		r, e := New(g, WithRecovery(s.recovery)).ParseWith(context.Background(), tokens(t, s.src), &l)
		test.ExpectNoError(t, e)
		test.ExpectInt(t, 1, len(Errors(r)))
		test.ExpectStrings(t, s.events, l.recovery())
	}
}

func TestErrorLimit(t *testing.T) {
	g := exprGrammar(t)
	r, e := New(g, WithMaxErrors(1)).Parse(context.Background(), tokens(t, "(a (b"))
	test.ExpectErrorCode(t, ErrorLimitError, e)
	test.ExpectInt(t, 1, len(Errors(r)))

	r, e = New(g, WithMaxErrors(2)).Parse(context.Background(), tokens(t, "(a (b"))
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 2, len(Errors(r)))

	r, e = New(g, WithMaxErrors(5)).Parse(context.Background(), tokens(t, "(a (b"))
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 2, len(Errors(r)))
}

func TestCanceled(t *testing.T) {
	g := exprGrammar(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e := New(g).Parse(ctx, tokens(t, "a + b"))
	test.ExpectErrorCode(t, CanceledError, e)
}

func TestListener(t *testing.T) {
	g := exprGrammar(t)
	var l recorder
	r, e := New(g).ParseWith(context.Background(), tokens(t, "a"), &l)
	test.ExpectNoError(t, e)
	test.Assert(t, r.Success(), "expecting success")
	test.ExpectStrings(t, []string{
		"expand E → T E'",
		"expand T → F T'",
		"expand F → id",
		"match id(a)",
		"expand T' → ε",
		"expand E' → ε",
		"match " + cgma.EndOfInput,
	}, l.events)
}

func TestTrace(t *testing.T) {
	g := exprGrammar(t)
	sb := &strings.Builder{}
	r, e := New(g).ParseWith(context.Background(), tokens(t, "a * b"), Trace(sb))
	test.ExpectNoError(t, e)
	test.Assert(t, r.Success(), "expecting success")
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	test.ExpectString(t, "1:1\texpand\tE → T E'", lines[0])
	test.ExpectString(t, "1:3\tmatch\t*", lines[5])
}

func TestConcurrentParsing(t *testing.T) {
	g := exprGrammar(t)
	p := New(g)
	good := tokens(t, "a + b * (c + d)")
	bad := tokens(t, "a + * c")
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			toks, success := good, true
			if i%2 != 0 {
				toks, success = bad, false
			}
			r, e := p.Parse(context.Background(), toks)
			if e == nil && r.Success() != success {
				e = fmt.Errorf("goroutine %d: expecting success %v", i, success)
			}
			if e != nil {
				errs <- e
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

type recorder struct {
	events []string
}

func (r *recorder) add(format string, params ...any) {
	r.events = append(r.events, fmt.Sprintf(format, params...))
}

func (r *recorder) recovery() []string {
	var res []string
	for _, e := range r.events {
		if strings.HasPrefix(e, "skip ") || strings.HasPrefix(e, "abandon ") || strings.HasPrefix(e, "insert ") {
			res = append(res, e)
		}
	}
	return res
}

func (r *recorder) Expand(p *grammar.Production, _ *lexer.Token) { r.add("expand %s", p) }
func (r *recorder) Match(t *lexer.Token)                         { r.add("match %s", t) }
func (r *recorder) Insert(term string, at *lexer.Token)          { r.add("insert %s at %s", term, at) }
func (r *recorder) Discard(t *lexer.Token)                       { r.add("skip %s", t) }
func (r *recorder) Abandon(nt string, at *lexer.Token)           { r.add("abandon %s at %s", nt, at) }
