package lexer

import (
	"fmt"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/source"
)

// Token is an immutable lexeme with its kind and start position.
type Token struct {
	kind string
	text string
	pos  source.Pos
}

func NewToken(kind, text string, pos source.Pos) *Token {
	return &Token{kind, text, pos}
}

// EoiToken returns synthetic end of input token positioned at the end of s.
func EoiToken(s *source.Source) *Token {
	return &Token{kind: cgma.EndOfInput, pos: s.Pos(s.Len())}
}

// Kind returns terminal kind, e.g. "id", "+", or cgma.EndOfInput.
func (t *Token) Kind() string {
	return t.kind
}

// Text returns exact matched text, empty for end of input token.
func (t *Token) Text() string {
	return t.text
}

func (t *Token) Pos() source.Pos {
	return t.pos
}

func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

func (t *Token) Line() int {
	return t.pos.Line()
}

func (t *Token) Col() int {
	return t.pos.Col()
}

func (t *Token) Offset() int {
	return t.pos.Offset()
}

func (t *Token) IsEoi() bool {
	return t.kind == cgma.EndOfInput
}

func (t *Token) String() string {
	if t.text == "" || t.text == t.kind {
		return t.kind
	}
	return fmt.Sprintf("%s(%s)", t.kind, t.text)
}
