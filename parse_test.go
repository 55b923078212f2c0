package xcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuguenot/xcalc"
)

func TestParse_Trees(t *testing.T) {
	x, y, n := xcalc.S('x'), xcalc.S('y'), xcalc.N
	cases := []struct {
		src  string
		want xcalc.Node
	}{
		{"x", x},
		{"1 + 2*3", xcalc.AddOf(xcalc.Plus(n(1)), xcalc.Plus(xcalc.Product(n(2), n(3))))},
		{"2x^2", xcalc.Product(n(2), xcalc.PowOf(x, n(2)))},
		{"2^x y", xcalc.Product(xcalc.PowOf(n(2), x), y)},
		{"x^2^3", xcalc.PowOf(x, xcalc.PowOf(n(2), n(3)))},
		{"1/2x", xcalc.MulOf(xcalc.Times(n(1)), xcalc.Over(xcalc.Product(n(2), x)))},
		{"x/y/2", xcalc.MulOf(xcalc.Times(x), xcalc.Over(y), xcalc.Over(n(2)))},
		{"2*3x", xcalc.Product(n(2), n(3), x)},
		{"x*(y*2)", xcalc.Product(x, xcalc.Product(y, n(2)))},
		{"-x - y", xcalc.AddOf(xcalc.Minus(x), xcalc.Minus(y))},
		{"2*-3", xcalc.Product(n(2), n(-3))},
		{"x(x+1)", xcalc.Product(x, xcalc.AddOf(xcalc.Plus(x), xcalc.Plus(n(1))))},
		{"sin(x)cos(x)", xcalc.Product(xcalc.FuncOf(xcalc.Sin, x), xcalc.FuncOf(xcalc.Cos, x))},
		{"ln(x)^2", xcalc.PowOf(xcalc.FuncOf(xcalc.Ln, x), n(2))},
		{"d/x", xcalc.MulOf(xcalc.Times(xcalc.S('d')), xcalc.Over(x))},
		{"d/dx(x^2)", xcalc.DerivOf(xcalc.PowOf(x, n(2)), 'x')},
		{"d/dx(d/dy(x y))", xcalc.DerivOf(xcalc.DerivOf(xcalc.Product(x, y), 'y'), 'x')},
		{"x^2 = 4", xcalc.Eq(xcalc.PowOf(x, n(2)), n(4))},
	}
	for _, c := range cases {
		got, err := xcalc.Parse(c.src)
		require.NoError(t, err, c.src)
		requireTree(t, c.want, got)
	}
}

func TestParse_DifferentialEquation(t *testing.T) {
	_, err := xcalc.Parse("d/dx(y) = x")
	assert.ErrorIs(t, err, xcalc.ErrDifferentialEquation)
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []struct {
		src string
		pos int
		msg string
	}{
		{"(x + 1", 6, "expected ')', got end of input"},
		{"x +", 3, "unexpected end of input"},
		{"x )", 2, "expected end of input, got ')'"},
		{"sin x", 4, `expected '(', got variable 'x'`},
		{"x = = 1", 4, "unexpected '='"},
		{"d/dx x", 5, `expected '(', got variable 'x'`},
		{"", 0, "unexpected end of input"},
	}
	for _, c := range cases {
		_, err := xcalc.Parse(c.src)
		var se *xcalc.SyntaxError
		require.ErrorAs(t, err, &se, c.src)
		assert.Equal(t, c.pos, se.Pos, c.src)
		assert.Equal(t, c.msg, se.Msg, c.src)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { xcalc.MustParse("(") })
}
