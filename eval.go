package xcalc

import "math"

// Bindings maps single-character symbols to values for one evaluation.
// A nil Bindings is valid and binds nothing.
type Bindings map[rune]float64

// without returns b minus v, copying only when v is bound.
func (b Bindings) without(v rune) Bindings {
	if _, ok := b[v]; !ok {
		return b
	}
	out := make(Bindings, len(b)-1)
	for k, x := range b {
		if k != v {
			out[k] = x
		}
	}
	return out
}

// Engine evaluates, differentiates and solves expression trees. Its constant
// table is fixed by New and only read afterwards, so an Engine is safe for
// concurrent use.
type Engine struct {
	consts map[rune]float64
}

// New returns an Engine whose constants are π and e.
func New() *Engine {
	return &Engine{consts: map[rune]float64{
		'π': math.Pi,
		'e': math.E,
	}}
}

// Constant reports the value of a built-in constant.
func (e *Engine) Constant(name rune) (float64, bool) {
	v, ok := e.consts[name]
	return v, ok
}

// Eval simplifies n, folding every numeric sub-tree and resolving symbols
// against the constant table and then b.
func (e *Engine) Eval(n Node, b Bindings) (Node, error) {
	switch v := n.(type) {
	case *Num:
		return v, nil
	case *Sym:
		if c, ok := e.consts[v.name]; ok {
			return N(c), nil
		}
		if x, ok := b[v.name]; ok {
			return N(x), nil
		}
		return v, nil
	case *Func:
		return e.evalFunc(v, b)
	case *Pow:
		return e.evalPow(v, b)
	case *Mul:
		return e.evalMul(v, b)
	case *Add:
		return e.evalAdd(v, b)
	case *Deriv:
		d, err := e.Diff(v.inner, v.v, b)
		if err != nil {
			return nil, err
		}
		return e.Eval(d, b)
	case *Equation:
		lhs, err := e.Eval(v.lhs, b)
		if err != nil {
			return nil, err
		}
		rhs, err := e.Eval(v.rhs, b)
		if err != nil {
			return nil, err
		}
		return Eq(lhs, rhs), nil
	}
	panic("xcalc: unknown node type")
}

func (e *Engine) evalFunc(f *Func, b Bindings) (Node, error) {
	arg, err := e.Eval(f.arg, b)
	if err != nil {
		return nil, err
	}
	n, ok := arg.(*Num)
	if !ok {
		return FuncOf(f.kind, arg), nil
	}
	x := n.val
	switch f.kind {
	case Sin:
		return N(math.Sin(x)), nil
	case Cos:
		return N(math.Cos(x)), nil
	case Tan:
		return N(math.Tan(x)), nil
	case Csc:
		if isInt(x / math.Pi) {
			return nil, ErrUndefined
		}
		return N(1 / math.Sin(x)), nil
	case Sec:
		return N(1 / math.Cos(x)), nil
	case Cot:
		return N(1 / math.Tan(x)), nil
	case Ln:
		if x == 0 {
			return nil, ErrNegInfinity
		}
		return N(math.Log(x)), nil
	case Log:
		if x == 0 {
			return nil, ErrInfinity
		}
		return N(math.Log10(x)), nil
	}
	panic("xcalc: unknown function kind")
}

func isInt(x float64) bool { return x == math.Trunc(x) }

func (e *Engine) evalPow(p *Pow, b Bindings) (Node, error) {
	base, err := e.Eval(p.base, b)
	if err != nil {
		return nil, err
	}
	exp, err := e.Eval(p.exp, b)
	if err != nil {
		return nil, err
	}
	bn, baseNum := base.(*Num)
	en, expNum := exp.(*Num)
	switch {
	case baseNum && expNum:
		switch {
		case en.val == 0:
			if bn.val == 0 {
				return nil, ErrUndefined
			}
			return N(1), nil
		case en.val == 1:
			return bn, nil
		case bn.val == 1:
			return N(1), nil
		}
		return N(math.Pow(bn.val, en.val)), nil
	case baseNum:
		if bn.val == 0 {
			return N(0), nil
		}
		if bn.val == 1 {
			return N(1), nil
		}
	case expNum:
		if en.val == 0 {
			return N(1), nil
		}
		if en.val == 1 {
			return base, nil
		}
	}
	return PowOf(base, exp), nil
}

func (e *Engine) evalMul(m *Mul, b Bindings) (Node, error) {
	// A literal zero factor wins before anything else is looked at.
	for _, f := range m.factors {
		if f.Op == OpMul && isNum(f.X, 0) {
			return N(0), nil
		}
	}
	flat := make([]Factor, 0, len(m.factors))
	for _, f := range m.factors {
		x, err := e.Eval(f.X, b)
		if err != nil {
			return nil, err
		}
		if inner, ok := x.(*Mul); ok && f.Op == OpMul {
			flat = append(flat, inner.factors...)
			continue
		}
		flat = append(flat, Factor{Op: f.Op, X: x})
	}
	coeff := 1.0
	var rest []Factor
	for _, f := range flat {
		n, ok := f.X.(*Num)
		if !ok {
			rest = append(rest, f)
			continue
		}
		if f.Op == OpDiv {
			if n.val == 0 {
				return nil, ErrUndefined
			}
			coeff /= n.val
		} else {
			coeff *= n.val
		}
	}
	if len(rest) == 0 || coeff == 0 {
		return N(coeff), nil
	}
	if coeff != 1 {
		rest = append(rest, Times(N(coeff)))
	} else if len(rest) == 1 && rest[0].Op == OpMul {
		return rest[0].X, nil
	}
	return &Mul{factors: rest}, nil
}

func (e *Engine) evalAdd(a *Add, b Bindings) (Node, error) {
	sum := 0.0
	var rest []Term
	for _, t := range a.terms {
		x, err := e.Eval(t.X, b)
		if err != nil {
			return nil, err
		}
		n, ok := x.(*Num)
		if !ok {
			rest = append(rest, Term{Op: t.Op, X: x})
			continue
		}
		if t.Op == OpSub {
			sum -= n.val
		} else {
			sum += n.val
		}
	}
	if len(rest) == 0 {
		return N(sum), nil
	}
	if sum != 0 {
		rest = append(rest, Plus(N(sum)))
	} else if len(rest) == 1 && rest[0].Op == OpAdd {
		return rest[0].X, nil
	}
	return &Add{terms: rest}, nil
}
