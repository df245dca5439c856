package lang

import (
	"github.com/cgma-lang/cgma/lexer"
	"github.com/cgma-lang/cgma/parser"
)

// TokenView is a token as presented to clients.
type TokenView struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// LexErrorView is a lexical error as presented to clients.
type LexErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Length  int    `json:"length"`
}

// SyntaxErrorView is a syntax error as presented to clients.
type SyntaxErrorView struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Expected []string `json:"expected"`
	Actual   string   `json:"actual"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Length   int      `json:"length"`
}

// TokenizeReport is the result of tokenizing: {tokens, errors}.
type TokenizeReport struct {
	Tokens []TokenView    `json:"tokens"`
	Errors []LexErrorView `json:"errors"`
}

// ParseReport is the result of parsing: {success, errors}.
type ParseReport struct {
	Success bool              `json:"success"`
	Errors  []SyntaxErrorView `json:"errors"`
}

// Report is the result of Check.
type Report struct {
	Language string `json:"language"`
	Source   string `json:"source,omitempty"`

	// Success is true if no lexical or syntax errors were found.
	Success bool `json:"success"`

	// Parsed is false if parsing was skipped because of lexical errors.
	Parsed bool `json:"parsed"`

	// Tokens contains number of tokens including end of input token.
	Tokens int `json:"tokens"`

	LexErrors []LexErrorView    `json:"lex_errors"`
	Errors    []SyntaxErrorView `json:"errors"`
}

func NewTokenizeReport(tokens []*lexer.Token, errs []*lexer.Error) *TokenizeReport {
	r := &TokenizeReport{make([]TokenView, len(tokens)), lexErrorViews(errs)}
	for i, t := range tokens {
		r.Tokens[i] = TokenView{t.Kind(), t.Text(), t.Line(), t.Col()}
	}
	return r
}

func NewParseReport(res parser.Result) *ParseReport {
	return &ParseReport{res.Success(), syntaxErrorViews(parser.Errors(res))}
}

func lexErrorViews(errs []*lexer.Error) []LexErrorView {
	res := make([]LexErrorView, len(errs))
	for i, e := range errs {
		res[i] = LexErrorView{e.Kind(), e.Message, e.Pos.Line(), e.Pos.Col(), len([]rune(e.Text))}
	}
	return res
}

func syntaxErrorViews(errs []*parser.SyntaxError) []SyntaxErrorView {
	res := make([]SyntaxErrorView, len(errs))
	for i, e := range errs {
		res[i] = SyntaxErrorView{e.Kind(), e.Message, e.Expected, e.Actual, e.Pos.Line(), e.Pos.Col(), len([]rune(e.Text))}
	}
	return res
}
