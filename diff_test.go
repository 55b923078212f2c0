package xcalc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuguenot/xcalc"
)

// ============================================================
// Rules
// ============================================================

func TestDiff_Leaves(t *testing.T) {
	eng := xcalc.New()
	cases := []struct {
		n    xcalc.Node
		want xcalc.Node
	}{
		{xcalc.N(5), xcalc.N(0)},
		{xcalc.S('x'), xcalc.N(1)},
		{xcalc.S('y'), xcalc.N(0)},
	}
	for _, c := range cases {
		got, err := eng.Diff(c.n, 'x', nil)
		require.NoError(t, err)
		requireTree(t, c.want, got)
	}
}

func TestDiff_PowerRule(t *testing.T) {
	assert.InDelta(t, 12, derivAt(t, xcalc.New(), "x^3", 'x', xcalc.Bindings{'x': 2}), tol)
}

func TestDiff_PowerRuleSymbolic(t *testing.T) {
	eng := xcalc.New()
	d, err := eng.Diff(xcalc.MustParse("x^3"), 'x', nil)
	require.NoError(t, err)
	d, err = eng.Eval(d, nil)
	require.NoError(t, err)
	assert.Equal(t, "x^2*3", d.String())
}

func TestDiff_ProductRule(t *testing.T) {
	got := derivAt(t, xcalc.New(), "x*sin(x)", 'x', xcalc.Bindings{'x': 1})
	assert.InDelta(t, math.Sin(1)+math.Cos(1), got, tol)
}

func TestDiff_QuotientRule(t *testing.T) {
	eng := xcalc.New()
	assert.InDelta(t, -0.25, derivAt(t, eng, "1/x", 'x', xcalc.Bindings{'x': 2}), tol)
	// d/dx(x^2/(x+1)) = (x^2 + 2x)/(x+1)^2
	assert.InDelta(t, 8.0/9, derivAt(t, eng, "x^2/(x+1)", 'x', xcalc.Bindings{'x': 2}), tol)
	// two divisors fold one at a time: d/dx(x/y/x) = 0
	assert.InDelta(t, 0, derivAt(t, eng, "x/y/x", 'x', xcalc.Bindings{'x': 3, 'y': 2}), tol)
}

func TestDiff_ChainRule(t *testing.T) {
	got := derivAt(t, xcalc.New(), "sin(x^2)", 'x', xcalc.Bindings{'x': 1})
	assert.InDelta(t, 2*math.Cos(1), got, tol)
}

func TestDiff_Functions(t *testing.T) {
	eng := xcalc.New()
	const x = 0.7
	b := xcalc.Bindings{'x': x}
	cases := []struct {
		src  string
		want float64
	}{
		{"sin(x)", math.Cos(x)},
		{"cos(x)", -math.Sin(x)},
		{"tan(x)", 1 / (math.Cos(x) * math.Cos(x))},
		{"csc(x)", -1 / math.Sin(x) / math.Tan(x)},
		{"sec(x)", math.Tan(x) / math.Cos(x)},
		{"cot(x)", -1 / (math.Cos(x) * math.Cos(x))},
		{"ln(x)", 1 / x},
		{"log(x)", 1 / (x * math.Ln10)},
		{"ln(3x)", 1 / x},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, derivAt(t, eng, c.src, 'x', b), 1e-9, c.src)
	}
}

func TestDiff_Exponentials(t *testing.T) {
	eng := xcalc.New()
	assert.InDelta(t, 2*math.Ln2, derivAt(t, eng, "2^x", 'x', xcalc.Bindings{'x': 1}), tol)
	assert.InDelta(t, math.E, derivAt(t, eng, "e^x", 'x', xcalc.Bindings{'x': 1}), tol)
	// d/dx(x^x) = x^x (ln x + 1)
	assert.InDelta(t, 4*(math.Ln2+1), derivAt(t, eng, "x^x", 'x', xcalc.Bindings{'x': 2}), 1e-9)
}

func TestDiff_Linearity(t *testing.T) {
	eng := xcalc.New()
	b := xcalc.Bindings{'x': 0.7}
	f := derivAt(t, eng, "x^2", 'x', b)
	g := derivAt(t, eng, "sin(x)", 'x', b)
	sum := derivAt(t, eng, "3x^2 + 2sin(x)", 'x', b)
	diff := derivAt(t, eng, "x^2 - sin(x)", 'x', b)
	assert.InDelta(t, 3*f+2*g, sum, tol)
	assert.InDelta(t, f-g, diff, tol)
}

func TestDiff_Partial(t *testing.T) {
	eng := xcalc.New()
	assert.InDelta(t, 9, derivAt(t, eng, "x^2 y", 'y', xcalc.Bindings{'x': 3, 'y': 5}), tol)
	assert.InDelta(t, 30, derivAt(t, eng, "x^2 y", 'x', xcalc.Bindings{'x': 3, 'y': 5}), tol)
}

// ============================================================
// Markers and bindings
// ============================================================

func TestDiff_MarkerEvaluatesAtBinding(t *testing.T) {
	eng := xcalc.New()
	assert.InDelta(t, 6, evalNum(t, eng, "d/dx(x^2)", xcalc.Bindings{'x': 3}), tol)
	assert.InDelta(t, 12, evalNum(t, eng, "d/dx(d/dx(x^3))", xcalc.Bindings{'x': 2}), tol)
	assert.InDelta(t, 1, evalNum(t, eng, "d/dx(d/dy(x y))", nil), tol)
}

func TestDiff_VariableIsNotSubstituted(t *testing.T) {
	eng := xcalc.New()
	d, err := eng.Diff(xcalc.MustParse("x*y"), 'x', xcalc.Bindings{'x': 5, 'y': 2})
	require.NoError(t, err)
	d, err = eng.Eval(d, nil)
	require.NoError(t, err)
	requireTree(t, xcalc.N(2), d)
}

func TestDiff_Equation(t *testing.T) {
	_, err := xcalc.New().Diff(xcalc.MustParse("x = 1"), 'x', nil)
	assert.ErrorIs(t, err, xcalc.ErrDiffEquation)
}
