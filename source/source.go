// Package source defines source file and positions within it.
package source

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Source is an immutable named source text with line start index.
// Safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates a source. content must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	s.lineStarts = make([]int, 1, bytes.Count(content, []byte{'\n'})+1)
	for i, b := range content {
		if b == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol returns 1-based line and column numbers of byte offset.
// Columns count runes. Offsets outside the content are clamped.
func (s *Source) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	} else if offset > len(s.content) {
		offset = len(s.content)
	}

	index := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	start := s.lineStarts[index]
	return index + 1, utf8.RuneCount(s.content[start:offset]) + 1
}

// Pos returns position of byte offset.
func (s *Source) Pos(offset int) Pos {
	if offset < 0 {
		offset = 0
	} else if offset > len(s.content) {
		offset = len(s.content)
	}
	line, col := s.LineCol(offset)
	return Pos{s.name, offset, line, col}
}

// Pos is an immutable source position.
type Pos struct {
	name              string
	offset, line, col int
}

// NewPos creates a position not bound to any Source.
func NewPos(name string, offset, line, col int) Pos {
	return Pos{name, offset, line, col}
}

func (p Pos) SourceName() string {
	return p.name
}

// Offset returns byte offset from the beginning of source.
func (p Pos) Offset() int {
	return p.offset
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) String() string {
	if p.name == "" {
		return fmt.Sprintf("%d:%d", p.line, p.col)
	}
	return fmt.Sprintf("%s:%d:%d", p.name, p.line, p.col)
}
