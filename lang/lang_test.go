package lang

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cgma-lang/cgma/grammar"
	"github.com/cgma-lang/cgma/internal/test"
	"github.com/cgma-lang/cgma/parser"
)

const program = `// globals
chungus limit = 10;
sturdy chudeluxe rate = 1.25;

nocap greet(forsen name) {
	yap("hello, ", name);
}

chungus square(chungus x) {
	back x * x;
}

skibidi() {
	chungus i;
	lwk done = false;
	plug (i = 0; i < limit; i++) {
		tuah (i % 2 == 0 && !done) {
			yap(square(i) * rate);
		} hawk tuah (i > 7) {
			done = true;
			pause;
		} hawk {
			greet("odd");
		}
	}

	/* read and echo */
	forsen line = chat();
	jit (line != "") {
		yap(line);
		line = chat();
	}
	back;
}
`

func mustBuiltin(t *testing.T, name string) *Language {
	l, e := Builtin(name)
	test.ExpectNoError(t, e)
	return l
}

func check(t *testing.T, l *Language, src string) *Report {
	r, e := l.Check(context.Background(), "test", []byte(src), CheckOptions{})
	test.ExpectNoError(t, e)
	return r
}

func TestBuiltins(t *testing.T) {
	test.ExpectStrings(t, []string{"calc", "cgma", "expr"}, Names())
	for _, name := range Names() {
		l := mustBuiltin(t, name)
		test.ExpectString(t, name, l.Name())
		again, _ := Builtin(name)
		test.Assert(t, l == again, "%s: expecting the same language instance", name)
	}

	_, e := Builtin("cobol")
	test.ExpectErrorCode(t, UnknownLanguageError, e)
}

func TestExprScenarios(t *testing.T) {
	l := mustBuiltin(t, "expr")

	r := check(t, l, "a + b * c")
	test.Assert(t, r.Success && r.Parsed, "expecting success")
	test.ExpectInt(t, 6, r.Tokens)
	test.ExpectInt(t, 0, len(r.Errors))

	r = check(t, l, "a + * c")
	test.Assert(t, !r.Success, "expecting failure")
	test.ExpectInt(t, 1, len(r.Errors))
	test.ExpectString(t, "UnexpectedToken", r.Errors[0].Kind)
	test.ExpectString(t, "*", r.Errors[0].Actual)
	test.ExpectStrings(t, []string{"id", "("}, r.Errors[0].Expected)
	test.ExpectInt(t, 5, r.Errors[0].Column)

	r = check(t, l, "")
	test.ExpectInt(t, 1, r.Tokens)
	test.ExpectInt(t, 1, len(r.Errors))
	test.ExpectString(t, "UnexpectedEndOfInput", r.Errors[0].Kind)
}

func TestCgmaProgram(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	r := check(t, l, program)
	test.Assert(t, r.Success, "expecting success, got %v %v", r.LexErrors, r.Errors)
}

const structures = `aura Point {
	chungus x;
	chungus y = 0;
}

aura Segment {
	aura Point from;
	aura Point to = {x = 1, y = 2};
	gng Color tint = 1;
}

gng Color { Red, Green = 5, Blue }

forsencd sep = ',';
aura Point origin = {x = 0, y = 0};
gng Color favourite = 2;

aura Point shift(chungus dx) {
	aura Point p = origin;
	p.x = p.x + dx;
	back p;
}

skibidi() {
	forsencd c = 'x';
	forsencd nl = '\n';
	chungus xs = [1, 2, 3];
	xs.append(4, 5);
	xs.insert(0, 9);
	xs.remove(1);
	chungus first = xs.remove(0);
	aura Point p = shift(3);
	p.x = (chungus) 2.5 + p.y;
	yap(p.x, origin.y, c, sep, shift(1).x);
	gng Color tint = favourite;
	lethimcook (tint) {
		caseoh 1:
			yap("red");
			getout;
		caseoh Color.Green:
			yap('g');
			getout;
		npc:
			yap("other");
			getout;
	}
	lethimcook (c) {
		caseoh 'x':
			pause;
			getout;
	}
	aura Pair { chungus left; chungus right; }
	gng Dir { Up, Down }
	aura Pair pair;
	back;
}
`

func TestCgmaStructures(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	r := check(t, l, structures)
	test.Assert(t, r.Success, "expecting success, got %v %v", r.LexErrors, r.Errors)

	tokens, errs := l.Tokenize("test", []byte(`forsencd c = '\''; xs.remove(0); caseoh npc: getout`))
	test.ExpectInt(t, 0, len(errs))
	kinds := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind()
	}
	test.ExpectStrings(t, []string{"forsencd", "IDENTIFIER", "=", "FORSENCD_LIT", ";",
		"IDENTIFIER", ".", "remove", "(", "CHU_LIT", ")", ";", "caseoh", "npc", ":", "getout", "END_OF_INPUT"}, kinds)
	test.ExpectString(t, `'\''`, tokens[3].Text())
}

func TestCgmaSyntaxErrors(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	samples := []struct {
		src    string
		kinds  []string
		actual []string
	}{
		{"skibidi() { chungus x = ; }", []string{"UnexpectedToken"}, []string{";"}},
		{"skibidi() { yap(1) }", []string{"UnexpectedToken"}, []string{"}"}},
		{"skibidi() {", []string{"UnexpectedEndOfInput"}, []string{"END_OF_INPUT"}},
		{"chungus x = 1; chungus y = 2", []string{"UnexpectedEndOfInput"}, []string{"END_OF_INPUT"}},
		{"skibidi() { x = 1 + ; yap(2 3); }", []string{"UnexpectedToken", "UnexpectedToken"}, []string{";", "CHU_LIT"}},
		{"skibidi() { aura Point { chungus x } }", []string{"UnexpectedToken"}, []string{"}"}},
		{"skibidi() { lethimcook (x) { caseoh 1: yap(1); } }", []string{"UnexpectedToken", "UnexpectedToken"}, []string{"}", "}"}},
		{"skibidi() { xs.push(1) }", []string{"UnexpectedToken"}, []string{"}"}},
	}

	for _, s := range samples {
		r := check(t, l, s.src)
		test.Assert(t, r.Parsed && !r.Success, "%q: expecting parse failure", s.src)
		if len(r.Errors) != len(s.kinds) {
			t.Fatalf("%q: expecting %d errors, got %v", s.src, len(s.kinds), r.Errors)
		}
		for i, e := range r.Errors {
			test.ExpectString(t, s.kinds[i], e.Kind)
			test.ExpectString(t, s.actual[i], e.Actual)
		}
	}
}

func TestCgmaLexicalErrors(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	samples := []struct {
		src  string
		kind string
	}{
		{`skibidi() { forsen s = "oops; }`, "UnterminatedLiteral"},
		{`skibidi() { chungus x = 12345678901; }`, "MalformedNumber"},
		{`skibidi() { chudeluxe x = 1.123456; }`, "MalformedNumber"},
		{`skibidi() { chungus x = 12ab; }`, "MalformedNumber"},
		{`skibidi() { chungus averyveryverylongidentifier = 1; }`, "LiteralTooLong"},
		{`skibidi() { chungus x = 1 # 2; }`, "InvalidCharacter"},
		{"skibidi() { /* never closed }", "UnterminatedComment"},
		{"skibidi() { forsencd c = 'x; }", "UnterminatedLiteral"},
		{"skibidi() { forsencd c = ''; }", "InvalidCharacter"},
	}

	for _, s := range samples {
		r := check(t, l, s.src)
		test.Assert(t, !r.Success && !r.Parsed, "%q: expecting no parse", s.src)
		test.ExpectInt(t, 1, len(r.LexErrors))
		test.ExpectString(t, s.kind, r.LexErrors[0].Kind)
		test.ExpectInt(t, 0, len(r.Errors))
	}
}

func TestParseOnLexErrors(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	r, e := l.Check(context.Background(), "test", []byte("skibidi() { chungus x = 1 # 2; }"), CheckOptions{ParseOnLexErrors: true})
	test.ExpectNoError(t, e)
	test.Assert(t, r.Parsed && !r.Success, "expecting parse")
	test.ExpectInt(t, 1, len(r.LexErrors))
	test.ExpectInt(t, 1, len(r.Errors))
	test.ExpectString(t, "CHU_LIT", r.Errors[0].Actual)
}

func TestCheckOptions(t *testing.T) {
	l := mustBuiltin(t, "expr")
	sb := &strings.Builder{}
	r, e := l.Check(context.Background(), "test", []byte("(a (b (c"), CheckOptions{
		Parser:   []parser.Option{parser.WithMaxErrors(1)},
		Listener: parser.Trace(sb),
	})
	test.ExpectErrorCode(t, parser.ErrorLimitError, e)
	test.Assert(t, !r.Success, "expecting failure")
	test.ExpectInt(t, 1, len(r.Errors))
	test.Assert(t, strings.Contains(sb.String(), "expand\tE → T E'"), "expecting trace, got %q", sb.String())
}

func TestCalc(t *testing.T) {
	l := mustBuiltin(t, "calc")
	r := check(t, l, "1.5 * (x - 2) + f(3, -y) % g()")
	test.Assert(t, r.Success, "expecting success, got %v %v", r.LexErrors, r.Errors)

	r = check(t, l, "1 + (2 * 3")
	test.ExpectInt(t, 1, len(r.Errors))
	test.ExpectStrings(t, []string{")"}, r.Errors[0].Expected)
}

func TestReports(t *testing.T) {
	l := mustBuiltin(t, "expr")
	tokens, errs := l.Tokenize("", []byte("a+b"))
	data, e := json.Marshal(NewTokenizeReport(tokens, errs))
	test.ExpectNoError(t, e)
	test.ExpectString(t, `{"tokens":[`+
		`{"kind":"id","lexeme":"a","line":1,"column":1},`+
		`{"kind":"+","lexeme":"+","line":1,"column":2},`+
		`{"kind":"id","lexeme":"b","line":1,"column":3},`+
		`{"kind":"END_OF_INPUT","lexeme":"","line":1,"column":4}],"errors":[]}`, string(data))

	tokens, _ = l.Tokenize("", []byte("a + * c"))
	res, e := l.Parse(context.Background(), tokens)
	test.ExpectNoError(t, e)
	pr := NewParseReport(res)
	test.Assert(t, !pr.Success, "expecting failure")
	test.ExpectInt(t, 1, len(pr.Errors))
	test.ExpectInt(t, 1, pr.Errors[0].Length)

	tokens, _ = l.Tokenize("", []byte("a"))
	res, _ = l.Parse(context.Background(), tokens)
	data, e = json.Marshal(NewParseReport(res))
	test.ExpectNoError(t, e)
	test.ExpectString(t, `{"success":true,"errors":[]}`, string(data))
}

func TestLoadAndResolve(t *testing.T) {
	content, e := builtinFiles.ReadFile("builtin/expr.yaml")
	test.ExpectNoError(t, e)
	path := filepath.Join(t.TempDir(), "mine.yaml")
	test.ExpectNoError(t, os.WriteFile(path, content, 0o644))

	l, e := Resolve("calc", path)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "expr", l.Name())

	l, e = Resolve("", "")
	test.ExpectNoError(t, e)
	test.ExpectString(t, DefaultName, l.Name())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	test.ExpectNoError(t, os.WriteFile(bad, []byte(`
name: bad
start: S
tokens: [{literals: [if, then, else, x]}]
productions:
  - {lhs: S, rhs: "if x then S"}
  - {lhs: S, rhs: "if x then S else S"}
  - {lhs: S, rhs: x}
`), 0o644))
	_, e = Load(bad)
	test.ExpectErrorCode(t, grammar.GrammarConflictError, e)
}

func TestConcurrentChecks(t *testing.T) {
	l := mustBuiltin(t, "cgma")
	var wg sync.WaitGroup
	failures := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, e := l.Check(context.Background(), "test", []byte(program), CheckOptions{})
			if e != nil || !r.Success {
				failures <- "concurrent check failed"
			}
		}()
	}
	wg.Wait()
	close(failures)
	for f := range failures {
		t.Error(f)
	}
}
