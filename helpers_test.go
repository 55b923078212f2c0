package xcalc_test

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/fuguenot/xcalc"
)

const tol = 1e-9

func requireTree(t *testing.T, want, got xcalc.Node) {
	t.Helper()
	require.True(t, xcalc.Equal(want, got), "want %s, got %s\n%v", want, got, pretty.Diff(want, got))
}

// evalNum evaluates src under b and requires a number.
func evalNum(t *testing.T, eng *xcalc.Engine, src string, b xcalc.Bindings) float64 {
	t.Helper()
	n, err := eng.Eval(xcalc.MustParse(src), b)
	require.NoError(t, err)
	num, ok := n.(*xcalc.Num)
	require.True(t, ok, "%s evaluated to %s, not a number", src, n)
	return num.Value()
}

// derivAt differentiates src in v and evaluates the result under b.
func derivAt(t *testing.T, eng *xcalc.Engine, src string, v rune, b xcalc.Bindings) float64 {
	t.Helper()
	d, err := eng.Diff(xcalc.MustParse(src), v, nil)
	require.NoError(t, err)
	n, err := eng.Eval(d, b)
	require.NoError(t, err)
	num, ok := n.(*xcalc.Num)
	require.True(t, ok, "d/d%c(%s) = %s, not a number", v, src, n)
	return num.Value()
}
