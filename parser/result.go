package parser

// Result is a parse verdict, either Accepted or Rejected.
type Result interface {
	// Success reports whether the token sequence is a sentence of the grammar.
	Success() bool
	isResult()
}

// Accepted is the result of a successful parse.
type Accepted struct{}

func (Accepted) Success() bool {
	return true
}

func (Accepted) isResult() {}

// Rejected is the result of a failed parse.
type Rejected struct {
	// Errors contains at least one error, ordered by position.
	Errors []*SyntaxError
}

func (*Rejected) Success() bool {
	return false
}

func (*Rejected) isResult() {}

// Errors returns syntax errors of r or nil if r is Accepted.
func Errors(r Result) []*SyntaxError {
	if rej, f := r.(*Rejected); f {
		return rej.Errors
	}
	return nil
}
