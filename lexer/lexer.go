// Package lexer defines lexical analyzer.
package lexer

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"github.com/cgma-lang/cgma"
	"github.com/cgma-lang/cgma/source"
)

// TokenDef describes one entry of a lexicon.
// Exactly one of Pattern and Literal must be set.
type TokenDef struct {
	// Kind contains token kind (terminal name). Defaults to Literal for literal definitions.
	// May be empty for skipped definitions.
	Kind string

	// Pattern contains RE2 regular expression matched at current position.
	Pattern string

	// Literal contains exact text to match.
	Literal string

	// Skip marks insignificant lexemes (whitespace, comments).
	Skip bool

	// Error marks broken lexemes: if this definition wins, lexer reports an error
	// with this code instead of emitting a token. The whole lexeme is skipped,
	// so the pattern decides where scanning resumes.
	Error int

	// MaxLen contains maximum lexeme length in runes, 0 means unlimited.
	MaxLen int
}

type matcher struct {
	TokenDef
	re  *regexp.Regexp
	lit []byte
}

// match returns length of the longest match at the beginning of content or 0.
func (m *matcher) match(content []byte) int {
	if m.re == nil {
		if bytes.HasPrefix(content, m.lit) {
			return len(m.lit)
		}
		return 0
	}

	loc := m.re.FindIndex(content)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// Lexer performs maximal munch lexical analysis using a list of token definitions.
// Lexer is immutable, stateless, and safe for concurrent use.
// At each position the longest match of all definitions wins,
// equal matches are resolved in favor of the definition declared first.
type Lexer struct {
	matchers []matcher
	kinds    []string
}

// New validates and compiles token definitions.
// Returns *cgma.Error with DefinitionError code if a definition is invalid.
func New(defs []TokenDef) (*Lexer, error) {
	l := &Lexer{matchers: make([]matcher, len(defs))}
	seen := make(map[string]bool)
	for i, def := range defs {
		m := matcher{TokenDef: def}
		switch {
		case def.Pattern == "" && def.Literal == "":
			return nil, definitionError(i, "either pattern or literal required")
		case def.Pattern != "" && def.Literal != "":
			return nil, definitionError(i, "pattern and literal are mutually exclusive")
		case def.Literal != "":
			m.lit = []byte(def.Literal)
			if m.Kind == "" && !def.Skip {
				m.Kind = def.Literal
			}
		default:
			re, e := regexp.Compile(`^(?:` + def.Pattern + `)`)
			if e != nil {
				return nil, definitionError(i, "%s", e.Error())
			}
			re.Longest()
			m.re = re
		}

		if m.Kind == "" && !m.Skip && m.Error == 0 {
			return nil, definitionError(i, "kind required")
		}
		if m.Kind == cgma.EndOfInput {
			return nil, definitionError(i, "%s is reserved", cgma.EndOfInput)
		}
		if m.Error != 0 && KindName(m.Error) == "" {
			return nil, definitionError(i, "unknown error code %d", m.Error)
		}
		if m.MaxLen < 0 {
			return nil, definitionError(i, "negative max length")
		}

		if !m.Skip && m.Error == 0 && !seen[m.Kind] {
			seen[m.Kind] = true
			l.kinds = append(l.kinds, m.Kind)
		}
		l.matchers[i] = m
	}
	return l, nil
}

// Kinds returns distinct kinds of emitted tokens in declaration order.
func (l *Lexer) Kinds() []string {
	res := make([]string, len(l.kinds))
	copy(res, l.kinds)
	return res
}

func (l *Lexer) longest(content []byte) (*matcher, int) {
	var best *matcher
	size := 0
	for i := range l.matchers {
		if n := l.matchers[i].match(content); n > size {
			best, size = &l.matchers[i], n
		}
	}
	return best, size
}

// Tokenize scans the whole source.
// Returned token list always ends with exactly one end of input token.
// Lexical errors never stop scanning: an unrecognized rune is reported and skipped,
// a broken lexeme (matched by a definition with non-zero Error) is reported and skipped entirely.
func (l *Lexer) Tokenize(src *source.Source) ([]*Token, []*Error) {
	content := src.Content()
	var (
		tokens []*Token
		errs   []*Error
	)

	for offset := 0; offset < len(content); {
		m, size := l.longest(content[offset:])
		pos := src.Pos(offset)
		if size == 0 {
			e, skip := invalidCharError(pos, content[offset:])
			errs = append(errs, e)
			offset += skip
			continue
		}

		text := string(content[offset : offset+size])
		offset += size
		switch {
		case m.Error != 0:
			errs = append(errs, brokenLexemeError(pos, m.Error, m.kindName(), text))
		case m.MaxLen > 0 && utf8.RuneCountInString(text) > m.MaxLen:
			errs = append(errs, tooLongError(pos, m.kindName(), text, m.MaxLen))
		case m.Skip:
		default:
			tokens = append(tokens, NewToken(m.Kind, text, pos))
		}
	}

	return append(tokens, EoiToken(src)), errs
}

func (m *matcher) kindName() string {
	if m.Kind == "" {
		return "lexeme"
	}
	return m.Kind
}
