package lsp

import (
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/cgma-lang/cgma/internal/test"
	"github.com/cgma-lang/cgma/lang"
)

func newServer(t *testing.T) *Server {
	l, e := lang.Builtin("cgma")
	test.ExpectNoError(t, e)
	return NewServer(l, lang.CheckOptions{}, "test")
}

type notification struct {
	method string
	params *protocol.PublishDiagnosticsParams
}

func recordingContext(sent *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			*sent = append(*sent, notification{method, params.(*protocol.PublishDiagnosticsParams)})
		},
	}
}

func TestUtf16Col(t *testing.T) {
	samples := []struct {
		line     string
		col, res int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"abc", 10, 3},
		{"é = 1", 3, 2},
		{"😀 = 1", 2, 2},
		{"😀 = 1", 3, 3},
		{"", 5, 0},
	}

	for _, s := range samples {
		test.ExpectInt(t, s.res, int(utf16Col(s.line, s.col)))
	}
}

func TestSyntaxDiagnostics(t *testing.T) {
	s := newServer(t)
	text := "skibidi() {\n\tchungus x = ;\n}\n"
	ds := s.Check("file:///tmp/a.cgma", text)
	test.ExpectInt(t, 1, len(ds))
	d := ds[0]
	test.ExpectInt(t, 1, int(d.Range.Start.Line))
	test.ExpectInt(t, 13, int(d.Range.Start.Character))
	test.ExpectInt(t, 14, int(d.Range.End.Character))
	test.Assert(t, *d.Severity == protocol.DiagnosticSeverityError, "expecting error severity")
	test.ExpectString(t, "UnexpectedToken", d.Code.Value.(string))
	test.ExpectString(t, "cgma", *d.Source)
}

func TestLexicalDiagnostics(t *testing.T) {
	s := newServer(t)
	ds := s.Check("a.cgma", "skibidi() { forsen s = \"abc; }")
	test.ExpectInt(t, 1, len(ds))
	test.ExpectString(t, "UnterminatedLiteral", ds[0].Code.Value.(string))
	test.ExpectInt(t, 23, int(ds[0].Range.Start.Character))
	test.ExpectInt(t, 30, int(ds[0].Range.End.Character))
}

func TestDocumentEvents(t *testing.T) {
	s := newServer(t)
	var sent []notification
	ctx := recordingContext(&sent)
	uri := "file:///tmp/b.cgma"

	test.ExpectNoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "skibidi() { pause }"},
	}))
	test.ExpectNoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "skibidi() { pause; }"}},
	}))
	test.ExpectNoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	test.ExpectNoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	test.ExpectInt(t, 4, len(sent))
	expected := []int{1, 0, 0, 0}
	for i, n := range sent {
		test.ExpectString(t, string(protocol.ServerTextDocumentPublishDiagnostics), n.method)
		test.ExpectString(t, uri, n.params.URI)
		test.ExpectInt(t, expected[i], len(n.params.Diagnostics))
	}
	test.ExpectInt(t, 0, len(s.docs))
}

func TestUriToPath(t *testing.T) {
	test.ExpectString(t, "/tmp/a b.cgma", uriToPath("file:///tmp/a%20b.cgma"))
	test.ExpectString(t, "untitled:1", uriToPath("untitled:1"))
}
