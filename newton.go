package xcalc

import "math"

// Convergence thresholds. The scalar solver compares the raw step, the
// system solver the squared norm of the step vector.
const (
	ScalarTolerance = 1e-4
	SystemTolerance = 1e-8
)

// SolveOptions configures the Newton solvers.
//   - MaxIter: give up with ErrNoConvergence after this many steps; <= 0
//     iterates until convergence, however long that takes.
type SolveOptions struct {
	MaxIter int
}

// DefaultSolveOptions returns the options used when nil is passed.
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{MaxIter: 10000}
}

func (o *SolveOptions) exhausted(iter int) bool {
	return o.MaxIter > 0 && iter >= o.MaxIter
}

// moveEquation rewrites lhs = rhs as lhs - rhs.
func moveEquation(eq Node) (Node, error) {
	e, ok := eq.(*Equation)
	if !ok {
		return nil, ErrNotEquation
	}
	return AddOf(Plus(e.lhs), Minus(e.rhs)), nil
}

// numeric unwraps an evaluated step, reporting the symbols that were left
// unbound when it is not a number.
func numeric(n Node) (float64, error) {
	if v, ok := n.(*Num); ok {
		return v.val, nil
	}
	return 0, &SolveError{Msg: ErrNotSubstituted.Msg, Free: FreeSymbols(n)}
}

// SolveEquation finds a root in x of a univariate equation by Newton–Raphson
// starting from guess. Iteration stops once |step| < ScalarTolerance.
func (e *Engine) SolveEquation(eq Node, guess float64, opts *SolveOptions) (float64, error) {
	if opts == nil {
		o := DefaultSolveOptions()
		opts = &o
	}
	f, err := moveEquation(eq)
	if err != nil {
		return 0, err
	}
	df, err := e.Diff(f, 'x', nil)
	if err != nil {
		return 0, err
	}
	if df, err = e.Eval(df, nil); err != nil {
		return 0, err
	}

	x := guess
	b := Bindings{}
	for iter := 0; ; iter++ {
		if opts.exhausted(iter) {
			return x, ErrNoConvergence
		}
		b['x'] = x
		fx, err := e.Eval(f, b)
		if err != nil {
			return 0, err
		}
		dfx, err := e.Eval(df, b)
		if err != nil {
			return 0, err
		}
		step, err := e.Eval(MulOf(Times(N(-1)), Times(fx), Over(dfx)), b)
		if err != nil {
			return 0, err
		}
		h, err := numeric(step)
		if err != nil {
			return 0, err
		}
		x += h
		if math.Abs(h) < ScalarTolerance {
			return x, nil
		}
	}
}

// SolveSystem finds a common root in (x, y) of two equations by Newton
// iteration on the symbolic Jacobian, starting from guess. The Jacobian, its
// determinant and its inverse are built once; each step binds x and y and
// evaluates -J⁻¹·f. Iteration stops once hx²+hy² < SystemTolerance.
func (e *Engine) SolveSystem(eq1, eq2 Node, guess [2]float64, opts *SolveOptions) ([2]float64, error) {
	if opts == nil {
		o := DefaultSolveOptions()
		opts = &o
	}
	f1, err := moveEquation(eq1)
	if err != nil {
		return guess, err
	}
	f2, err := moveEquation(eq2)
	if err != nil {
		return guess, err
	}
	jac, err := e.Jacobian([]Node{f1, f2}, []rune{'x', 'y'}, nil)
	if err != nil {
		return guess, err
	}
	inv, _, err := e.Inverse(jac, nil)
	if err != nil {
		return guess, err
	}

	sol := guess
	b := Bindings{}
	for iter := 0; ; iter++ {
		if opts.exhausted(iter) {
			return sol, ErrNoConvergence
		}
		b['x'], b['y'] = sol[0], sol[1]
		v1, err := e.Eval(f1, b)
		if err != nil {
			return sol, err
		}
		v2, err := e.Eval(f2, b)
		if err != nil {
			return sol, err
		}
		var h [2]float64
		for i := range h {
			step, err := e.Eval(AddOf(
				Plus(Product(N(-1), inv.data[i][0], v1)),
				Plus(Product(N(-1), inv.data[i][1], v2)),
			), b)
			if err != nil {
				return sol, err
			}
			if h[i], err = numeric(step); err != nil {
				return sol, err
			}
		}
		sol[0] += h[0]
		sol[1] += h[1]
		if h[0]*h[0]+h[1]*h[1] < SystemTolerance {
			return sol, nil
		}
	}
}
