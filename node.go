package xcalc

// ============================================================
// Core Interface
// ============================================================

// Node is an immutable expression tree node. The set of implementations is
// closed: Num, Sym, Func, Pow, Mul, Add, Deriv and Equation.
type Node interface {
	String() string
	LaTeX() string
	exprType() string
	toJSON() map[string]interface{}
}

// Op tags an element of a Product-chain (OpMul, OpDiv) or a Sum-chain
// (OpAdd, OpSub).
type Op byte

const (
	OpMul Op = '*'
	OpDiv Op = '/'
	OpAdd Op = '+'
	OpSub Op = '-'
)

func (o Op) String() string { return string(rune(o)) }

// ============================================================
// Num — real literal
// ============================================================

type Num struct{ val float64 }

func N(v float64) *Num { return &Num{val: v} }

func (n *Num) Value() float64   { return n.val }
func (n *Num) exprType() string { return "num" }

func isNum(x Node, v float64) bool {
	n, ok := x.(*Num)
	return ok && n.val == v
}

// ============================================================
// Sym — single-character symbol
// ============================================================

type Sym struct{ name rune }

func S(name rune) *Sym { return &Sym{name: name} }

func (s *Sym) Name() rune       { return s.name }
func (s *Sym) exprType() string { return "sym" }

// ============================================================
// Func — unary transcendental application
// ============================================================

// FuncKind names one of the supported unary functions.
type FuncKind int

const (
	Sin FuncKind = iota
	Cos
	Tan
	Csc
	Sec
	Cot
	Ln
	Log
)

var funcNames = [...]string{
	Sin: "sin",
	Cos: "cos",
	Tan: "tan",
	Csc: "csc",
	Sec: "sec",
	Cot: "cot",
	Ln:  "ln",
	Log: "log",
}

func (k FuncKind) String() string {
	if k < 0 || int(k) >= len(funcNames) {
		return "func?"
	}
	return funcNames[k]
}

// LookupFunc returns the kind whose name is name.
func LookupFunc(name string) (FuncKind, bool) {
	for k, n := range funcNames {
		if n == name {
			return FuncKind(k), true
		}
	}
	return 0, false
}

type Func struct {
	kind FuncKind
	arg  Node
}

func FuncOf(kind FuncKind, arg Node) *Func { return &Func{kind: kind, arg: arg} }

func (f *Func) Kind() FuncKind   { return f.kind }
func (f *Func) Arg() Node        { return f.arg }
func (f *Func) exprType() string { return "func" }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Node }

func PowOf(base, exp Node) *Pow { return &Pow{base: base, exp: exp} }

func (p *Pow) Base() Node       { return p.base }
func (p *Pow) ExpNode() Node    { return p.exp }
func (p *Pow) exprType() string { return "pow" }

// ============================================================
// Mul — Product-chain
// ============================================================

// Factor is one tagged element of a Product-chain.
type Factor struct {
	Op Op
	X  Node
}

func Times(x Node) Factor { return Factor{Op: OpMul, X: x} }
func Over(x Node) Factor  { return Factor{Op: OpDiv, X: x} }

type Mul struct{ factors []Factor }

// MulOf builds a Product-chain. The slice is copied.
func MulOf(factors ...Factor) *Mul {
	return &Mul{factors: append([]Factor(nil), factors...)}
}

// Product is shorthand for a chain of multiply-tagged factors.
func Product(xs ...Node) *Mul {
	fs := make([]Factor, len(xs))
	for i, x := range xs {
		fs[i] = Times(x)
	}
	return &Mul{factors: fs}
}

func (m *Mul) Factors() []Factor { return append([]Factor(nil), m.factors...) }
func (m *Mul) Len() int          { return len(m.factors) }
func (m *Mul) exprType() string  { return "mul" }

// ============================================================
// Add — Sum-chain
// ============================================================

// Term is one tagged element of a Sum-chain.
type Term struct {
	Op Op
	X  Node
}

func Plus(x Node) Term  { return Term{Op: OpAdd, X: x} }
func Minus(x Node) Term { return Term{Op: OpSub, X: x} }

type Add struct{ terms []Term }

// AddOf builds a Sum-chain. The slice is copied.
func AddOf(terms ...Term) *Add {
	return &Add{terms: append([]Term(nil), terms...)}
}

func (a *Add) Terms() []Term    { return append([]Term(nil), a.terms...) }
func (a *Add) Len() int         { return len(a.terms) }
func (a *Add) exprType() string { return "add" }

// ============================================================
// Deriv — unevaluated derivative marker
// ============================================================

type Deriv struct {
	inner Node
	v     rune
}

func DerivOf(inner Node, v rune) *Deriv { return &Deriv{inner: inner, v: v} }

func (d *Deriv) Inner() Node      { return d.inner }
func (d *Deriv) Var() rune        { return d.v }
func (d *Deriv) exprType() string { return "deriv" }

// ============================================================
// Equation
// ============================================================

type Equation struct{ lhs, rhs Node }

func Eq(lhs, rhs Node) *Equation { return &Equation{lhs: lhs, rhs: rhs} }

func (e *Equation) LHS() Node        { return e.lhs }
func (e *Equation) RHS() Node        { return e.rhs }
func (e *Equation) exprType() string { return "eq" }

// ============================================================
// Structural equality and free symbols
// ============================================================

// Equal reports whether a and b are the same tree. Chain order matters.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Num:
		y, ok := b.(*Num)
		return ok && x.val == y.val
	case *Sym:
		y, ok := b.(*Sym)
		return ok && x.name == y.name
	case *Func:
		y, ok := b.(*Func)
		return ok && x.kind == y.kind && Equal(x.arg, y.arg)
	case *Pow:
		y, ok := b.(*Pow)
		return ok && Equal(x.base, y.base) && Equal(x.exp, y.exp)
	case *Mul:
		y, ok := b.(*Mul)
		if !ok || len(x.factors) != len(y.factors) {
			return false
		}
		for i := range x.factors {
			if x.factors[i].Op != y.factors[i].Op || !Equal(x.factors[i].X, y.factors[i].X) {
				return false
			}
		}
		return true
	case *Add:
		y, ok := b.(*Add)
		if !ok || len(x.terms) != len(y.terms) {
			return false
		}
		for i := range x.terms {
			if x.terms[i].Op != y.terms[i].Op || !Equal(x.terms[i].X, y.terms[i].X) {
				return false
			}
		}
		return true
	case *Deriv:
		y, ok := b.(*Deriv)
		return ok && x.v == y.v && Equal(x.inner, y.inner)
	case *Equation:
		y, ok := b.(*Equation)
		return ok && Equal(x.lhs, y.lhs) && Equal(x.rhs, y.rhs)
	}
	return false
}

// FreeSymbols returns the distinct symbols of e in order of first appearance.
func FreeSymbols(e Node) []rune {
	var out []rune
	seen := map[rune]bool{}
	collectSymbols(e, seen, &out)
	return out
}

func collectSymbols(e Node, seen map[rune]bool, out *[]rune) {
	switch v := e.(type) {
	case *Sym:
		if !seen[v.name] {
			seen[v.name] = true
			*out = append(*out, v.name)
		}
	case *Func:
		collectSymbols(v.arg, seen, out)
	case *Pow:
		collectSymbols(v.base, seen, out)
		collectSymbols(v.exp, seen, out)
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f.X, seen, out)
		}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t.X, seen, out)
		}
	case *Deriv:
		collectSymbols(v.inner, seen, out)
	case *Equation:
		collectSymbols(v.lhs, seen, out)
		collectSymbols(v.rhs, seen, out)
	}
}
