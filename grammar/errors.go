package grammar

import (
	"fmt"
	"strings"

	"github.com/cgma-lang/cgma"
)

// Error codes used by grammar compiler:
const (
	NoProductionsError = cgma.LangDefErrors + iota
	UnknownStartError
	UndefinedSymbolError
	SymbolClashError
	DuplicateTerminalError
	UnreachableError
	UnproductiveError
	GrammarConflictError
	ProductionIDError
)

func noProductionsError() *cgma.Error {
	return cgma.FormatError(NoProductionsError, "grammar has no productions")
}

func unknownStartError(name string) *cgma.Error {
	return cgma.FormatError(UnknownStartError, "start non-terminal %q has no productions", name)
}

func undefinedSymbolError(names []string) *cgma.Error {
	return cgma.FormatError(UndefinedSymbolError, "undefined symbols: %s", strings.Join(names, ", "))
}

func symbolClashError(name string) *cgma.Error {
	return cgma.FormatError(SymbolClashError, "%q is declared both as terminal and non-terminal", name)
}

func duplicateTerminalError(name string) *cgma.Error {
	return cgma.FormatError(DuplicateTerminalError, "terminal %q declared more than once", name)
}

func unreachableError(names []string) *cgma.Error {
	return cgma.FormatError(UnreachableError, "unreachable non-terminals: %s", strings.Join(names, ", "))
}

func unproductiveError(names []string) *cgma.Error {
	return cgma.FormatError(UnproductiveError, "non-terminals deriving no terminal string: %s", strings.Join(names, ", "))
}

func productionIDError(index, id int) *cgma.Error {
	return cgma.FormatError(ProductionIDError, "production #%d has id %d, expecting %d", index, id, index)
}

// Conflict describes one LL(1) conflict: two productions of the same non-terminal
// predicted by the same terminal.
type Conflict struct {
	Nonterminal string
	Terminal    string
	First       int // production already occupying the predict table cell
	Second      int // production that collides with it
}

func (c Conflict) String() string {
	return fmt.Sprintf("non-terminal %q, terminal %q: productions %d and %d", c.Nonterminal, c.Terminal, c.First, c.Second)
}

// ConflictError is returned by Compile if the grammar is not LL(1).
// It lists every conflicting predict table cell.
type ConflictError struct {
	// Conflicts are ordered by non-terminal declaration order, then production order, then terminal order.
	Conflicts []Conflict
	msg       string
}

func (e *ConflictError) Error() string {
	return e.msg
}

func (e *ConflictError) ErrorCode() int {
	return GrammarConflictError
}

// First returns the first conflict in deterministic order.
func (e *ConflictError) First() Conflict {
	return e.Conflicts[0]
}

func conflictError(conflicts []Conflict) *ConflictError {
	msg := "grammar is not LL(1): " + conflicts[0].String()
	if len(conflicts) > 1 {
		msg += fmt.Sprintf(" (%d more conflicts)", len(conflicts)-1)
	}
	return &ConflictError{conflicts, msg}
}
