package xcalc

// Diff returns ∂n/∂v. Other symbols are treated as constants. b is used only
// by the evaluations that normalize sub-trees; v itself is never bound.
// The result is not simplified as a whole; pass it through Eval.
func (e *Engine) Diff(n Node, v rune, b Bindings) (Node, error) {
	b = b.without(v)
	switch x := n.(type) {
	case *Num:
		return N(0), nil
	case *Sym:
		if x.name == v {
			return N(1), nil
		}
		return N(0), nil
	case *Func:
		return e.diffFunc(x, v, b)
	case *Pow:
		return e.diffPow(x, v, b)
	case *Mul:
		return e.diffMul(x, v, b)
	case *Add:
		terms := make([]Term, len(x.terms))
		for i, t := range x.terms {
			tx, err := e.Eval(t.X, b)
			if err != nil {
				return nil, err
			}
			d, err := e.Diff(tx, v, b)
			if err != nil {
				return nil, err
			}
			terms[i] = Term{Op: t.Op, X: d}
		}
		return &Add{terms: terms}, nil
	case *Deriv:
		inner, err := e.Diff(x.inner, x.v, b)
		if err != nil {
			return nil, err
		}
		inner, err = e.Eval(inner, b)
		if err != nil {
			return nil, err
		}
		return e.Diff(inner, v, b)
	case *Equation:
		return nil, ErrDiffEquation
	}
	panic("xcalc: unknown node type")
}

// outerDerivative is f'(u) for the function kind of f, as a tree in u.
func outerDerivative(kind FuncKind, u Node) Node {
	switch kind {
	case Sin:
		return FuncOf(Cos, u)
	case Cos:
		return Product(N(-1), FuncOf(Sin, u))
	case Tan:
		return PowOf(FuncOf(Sec, u), N(2))
	case Csc:
		return Product(N(-1), FuncOf(Csc, u), FuncOf(Cot, u))
	case Sec:
		return Product(FuncOf(Sec, u), FuncOf(Tan, u))
	case Cot:
		return Product(N(-1), PowOf(FuncOf(Sec, u), N(2)))
	case Ln:
		return MulOf(Over(u))
	case Log:
		return MulOf(Over(Product(u, FuncOf(Ln, N(10)))))
	}
	panic("xcalc: unknown function kind")
}

func (e *Engine) diffFunc(f *Func, v rune, b Bindings) (Node, error) {
	u, err := e.Eval(f.arg, b)
	if err != nil {
		return nil, err
	}
	du, err := e.Diff(u, v, b)
	if err != nil {
		return nil, err
	}
	return e.Eval(Product(du, outerDerivative(f.kind, u)), b)
}

func (e *Engine) diffPow(p *Pow, v rune, b Bindings) (Node, error) {
	base, err := e.Eval(p.base, b)
	if err != nil {
		return nil, err
	}
	exp, err := e.Eval(p.exp, b)
	if err != nil {
		return nil, err
	}
	// d(u^k) = u' * k * u^(k-1)
	if k, ok := exp.(*Num); ok {
		du, err := e.Diff(base, v, b)
		if err != nil {
			return nil, err
		}
		return Product(du, k, PowOf(base, N(k.val-1))), nil
	}
	// d(a^w) = w' * a^w * ln(a)
	if a, ok := base.(*Num); ok {
		dw, err := e.Diff(exp, v, b)
		if err != nil {
			return nil, err
		}
		return Product(dw, PowOf(a, exp), FuncOf(Ln, a)), nil
	}
	// d(u^w) = u^w * (w' * ln(u) + u' * w / u)
	du, err := e.Diff(base, v, b)
	if err != nil {
		return nil, err
	}
	dw, err := e.Diff(exp, v, b)
	if err != nil {
		return nil, err
	}
	return Product(
		PowOf(base, exp),
		AddOf(
			Plus(Product(dw, FuncOf(Ln, base))),
			Plus(MulOf(Times(du), Times(exp), Over(base))),
		),
	), nil
}

// diffMul applies the generalized product rule to the multiply-tagged
// factors, then folds the divisors in one at a time with the quotient rule:
//
//	r' <- (r'*d - d'*r) / d^2,  r <- r/d
func (e *Engine) diffMul(m *Mul, v rune, b Bindings) (Node, error) {
	var num, den []Node
	for _, f := range m.factors {
		x, err := e.Eval(f.X, b)
		if err != nil {
			return nil, err
		}
		if f.Op == OpDiv {
			den = append(den, x)
		} else {
			num = append(num, x)
		}
	}

	terms := make([]Term, len(num))
	for i := range num {
		fs := make([]Factor, len(num))
		for j, x := range num {
			if i != j {
				fs[j] = Times(x)
				continue
			}
			d, err := e.Diff(x, v, b)
			if err != nil {
				return nil, err
			}
			fs[j] = Times(d)
		}
		terms[i] = Plus(&Mul{factors: fs})
	}
	var dr Node = &Add{terms: terms}
	if len(num) == 0 {
		dr = N(0)
	}
	if len(den) == 0 {
		return dr, nil
	}

	var r Node = N(1)
	if len(num) > 0 {
		r = Product(num...)
	}
	for _, d := range den {
		dd, err := e.Diff(d, v, b)
		if err != nil {
			return nil, err
		}
		dr = MulOf(
			Times(AddOf(
				Plus(Product(dr, d)),
				Minus(Product(dd, r)),
			)),
			Over(PowOf(d, N(2))),
		)
		r = MulOf(Times(r), Over(d))
	}
	return dr, nil
}
