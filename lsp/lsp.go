// Package lsp implements a language server publishing lexical and syntax diagnostics
// of documents written in a cgma language.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/cgma-lang/cgma/lang"
)

const lsName = "cgma"

var log = commonlog.GetLogger("cgma.lsp")

// Server checks open documents with one language and publishes diagnostics on every open, change, and save.
type Server struct {
	lang    *lang.Language
	opts    lang.CheckOptions
	version string
	handler protocol.Handler
	server  *server.Server

	mu   sync.Mutex
	docs map[string]string
}

func NewServer(l *lang.Language, opts lang.CheckOptions, version string) *Server {
	s := &Server{
		lang:    l,
		opts:    opts,
		version: version,
		docs:    make(map[string]string),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	log.Infof("serving %q diagnostics over stdio", s.lang.Name())
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	if change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, change.Text)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.update(ctx, uri, *params.Text)
		return nil
	}

	s.mu.Lock()
	text, f := s.docs[uri]
	s.mu.Unlock()
	if f {
		s.publish(ctx, uri, text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
	s.publish(ctx, uri, text)
}

func (s *Server) publish(ctx *glsp.Context, uri, text string) {
	ds := s.Check(uri, text)
	log.Debugf("%s: %d diagnostics", uri, len(ds))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ds,
	})
}

// Check returns diagnostics for document text.
func (s *Server) Check(uri, text string) []protocol.Diagnostic {
	r, e := s.lang.Check(context.Background(), uriToPath(uri), []byte(text), s.opts)
	if e != nil {
		log.Warningf("%s: %s", uri, e.Error())
	}
	return Diagnostics(s.lang.Name(), text, r)
}

// Diagnostics converts check report to LSP diagnostics, lexical errors first.
// LSP positions are zero-based and count UTF-16 units, report positions are one-based and count runes.
func Diagnostics(source, text string, r *lang.Report) []protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	res := make([]protocol.Diagnostic, 0, len(r.LexErrors)+len(r.Errors))
	for _, e := range r.LexErrors {
		res = append(res, diagnostic(source, lines, e.Kind, e.Message, e.Line, e.Column, e.Length))
	}
	for _, e := range r.Errors {
		res = append(res, diagnostic(source, lines, e.Kind, e.Message, e.Line, e.Column, e.Length))
	}
	return res
}

func diagnostic(source string, lines []string, kind, msg string, line, col, length int) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	text := ""
	if line > 0 && line <= len(lines) {
		text = lines[line-1]
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line - 1), Character: utf16Col(text, col)},
			End:   protocol.Position{Line: protocol.UInteger(line - 1), Character: utf16Col(text, col+length)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: kind},
		Source:   &source,
		Message:  msg,
	}
}

// utf16Col converts one-based rune column to zero-based UTF-16 offset within line.
// Columns past the end of line (multi-line lexemes, end of input) are clamped to line length.
func utf16Col(line string, col int) protocol.UInteger {
	n := 0
	for i := 1; i < col && line != ""; i++ {
		r, size := utf8.DecodeRuneInString(line)
		line = line[size:]
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return protocol.UInteger(n)
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if parsed, e := url.Parse(uri); e == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
