package xcalc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Evaluation failures. Callers match them with errors.Is.
var (
	// ErrUndefined covers 0^0, division by an exact 0 and csc at a pole.
	ErrUndefined = errors.New("undefined")
	// ErrInfinity is log(0).
	ErrInfinity = errors.New("infinity")
	// ErrNegInfinity is ln(0).
	ErrNegInfinity = errors.New("-infinity")
	// ErrDiffEquation is returned when an Equation is differentiated.
	ErrDiffEquation = errors.New("cannot perform differentiation on an equation")
	// ErrNonSquare is returned by Det and Inverse for non-square matrices.
	ErrNonSquare = errors.New("matrix is not square")
)

// SolveError is a failure of the Newton solvers. Two SolveErrors match under
// errors.Is when their messages match, so the sentinels below can be used
// regardless of the symbols attached.
type SolveError struct {
	Msg  string
	Free []rune
}

func (e *SolveError) Error() string {
	if len(e.Free) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, joinRunes(e.Free))
}

func (e *SolveError) Is(target error) bool {
	t, ok := target.(*SolveError)
	return ok && t.Msg == e.Msg
}

var (
	ErrNotEquation    = &SolveError{Msg: "not an equation"}
	ErrNotSubstituted = &SolveError{Msg: "not substituted"}
	ErrNoConvergence  = &SolveError{Msg: "no convergence"}
)

func joinRunes(rs []rune) string {
	b := make([]byte, 0, 2*len(rs))
	for i, r := range rs {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, string(r)...)
	}
	return string(b)
}
