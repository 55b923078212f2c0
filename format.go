package xcalc

import (
	"strconv"
	"strings"
)

// ============================================================
// Text rendering
// ============================================================

// needsParens reports whether x must be parenthesized when it appears as a
// chain element or inside a power.
func needsParens(x Node) bool {
	switch x.(type) {
	case *Mul, *Add, *Deriv:
		return true
	}
	return false
}

func wrap(x Node) string {
	if needsParens(x) {
		return "(" + x.String() + ")"
	}
	return x.String()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (n *Num) String() string  { return formatFloat(n.val) }
func (s *Sym) String() string  { return string(s.name) }
func (f *Func) String() string { return f.kind.String() + "(" + f.arg.String() + ")" }

func (p *Pow) String() string {
	base := wrap(p.base)
	switch b := p.base.(type) {
	case *Pow:
		base = "(" + base + ")"
	case *Num:
		if b.val < 0 {
			base = "(" + base + ")"
		}
	}
	return base + "^" + wrap(p.exp)
}

func (d *Deriv) String() string { return "d/d" + string(d.v) + "(" + d.inner.String() + ")" }

func (e *Equation) String() string { return e.lhs.String() + " = " + e.rhs.String() }

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	var sb strings.Builder
	for i, f := range m.factors {
		switch {
		case f.Op == OpDiv && i == 0:
			sb.WriteString("1/")
		case f.Op == OpDiv:
			sb.WriteString("/")
		case i > 0:
			sb.WriteString("*")
		}
		sb.WriteString(wrap(f.X))
	}
	return sb.String()
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		op, x := termSign(t, i)
		switch {
		case op == OpSub && i == 0:
			sb.WriteString("-")
		case op == OpSub:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(wrap(x))
	}
	return sb.String()
}

// termSign moves the sign of a negative number added after the first term
// onto the operator, so x + -1 reads x - 1.
func termSign(t Term, i int) (Op, Node) {
	if n, ok := t.X.(*Num); ok && i > 0 && t.Op == OpAdd && n.val < 0 {
		return OpSub, N(-n.val)
	}
	return t.Op, t.X
}

// ============================================================
// LaTeX rendering
// ============================================================

func latexWrap(x Node) string {
	if needsParens(x) {
		return "\\left(" + x.LaTeX() + "\\right)"
	}
	return x.LaTeX()
}

func (n *Num) LaTeX() string { return formatFloat(n.val) }

func (s *Sym) LaTeX() string {
	if s.name == 'π' {
		return "\\pi"
	}
	return string(s.name)
}

func (f *Func) LaTeX() string {
	name := "\\" + f.kind.String()
	if f.kind == Log {
		name = "\\log_{10}"
	}
	return name + "\\left(" + f.arg.LaTeX() + "\\right)"
}

func (p *Pow) LaTeX() string {
	base := p.base.LaTeX()
	switch b := p.base.(type) {
	case *Mul, *Add, *Deriv, *Pow, *Func:
		base = "\\left(" + base + "\\right)"
	case *Num:
		if b.val < 0 {
			base = "\\left(" + base + "\\right)"
		}
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (m *Mul) LaTeX() string {
	var num, den []string
	for _, f := range m.factors {
		if f.Op == OpDiv {
			den = append(den, latexWrap(f.X))
		} else {
			num = append(num, latexWrap(f.X))
		}
	}
	top := strings.Join(num, " \\cdot ")
	if top == "" {
		top = "1"
	}
	if len(den) == 0 {
		return top
	}
	return "\\frac{" + top + "}{" + strings.Join(den, " \\cdot ") + "}"
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		op, x := termSign(t, i)
		switch {
		case op == OpSub && i == 0:
			sb.WriteString("-")
		case op == OpSub:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(latexWrap(x))
	}
	return sb.String()
}

func (d *Deriv) LaTeX() string {
	return "\\frac{d}{d" + string(d.v) + "}\\left(" + d.inner.LaTeX() + "\\right)"
}

func (e *Equation) LaTeX() string { return e.lhs.LaTeX() + " = " + e.rhs.LaTeX() }
