package xcalc_test

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuguenot/xcalc"
)

func newSession() *xcalc.Session {
	return xcalc.NewSession(xcalc.New(), xcalc.DefaultSolveOptions())
}

func exec(t *testing.T, s *xcalc.Session, line string) string {
	t.Helper()
	out, err := s.Exec(line)
	require.NoError(t, err, line)
	return out
}

func TestSession_Evaluate(t *testing.T) {
	s := newSession()
	assert.Equal(t, "", exec(t, s, "   "))
	assert.Equal(t, "7", exec(t, s, "1 + 2*3"))
	assert.Equal(t, "x*24", exec(t, s, "2*3x*4"))
	assert.Equal(t, "4 = 4", exec(t, s, "2*2 = 4"))
}

func TestSession_Bindings(t *testing.T) {
	s := newSession()
	assert.Equal(t, "a = 2", exec(t, s, "let a = 2"))
	assert.Equal(t, "b = 8", exec(t, s, "let b = a^3"))
	assert.Equal(t, "x^2*2", exec(t, s, "a x^2"))
	assert.Equal(t, "a = 2\nb = 8", exec(t, s, "vars"))
	assert.Equal(t, xcalc.Bindings{'a': 2, 'b': 8}, s.Bindings())

	exec(t, s, "unset a")
	assert.Equal(t, "b = 8", exec(t, s, "vars"))
	assert.Equal(t, "a*8", exec(t, s, "a b"))
}

func TestSession_LetErrors(t *testing.T) {
	s := newSession()
	_, err := s.Exec("let e = 1")
	assert.EqualError(t, err, "let: e is a constant")

	_, err = s.Exec("let a = y")
	assert.ErrorIs(t, err, xcalc.ErrNotSubstituted)

	_, err = s.Exec("let ab = 1")
	assert.Error(t, err)

	_, err = s.Exec("let a")
	assert.Error(t, err)

	assert.Empty(t, s.Bindings())
}

func TestSession_Derivatives(t *testing.T) {
	s := newSession()
	assert.Equal(t, "x^2*3", exec(t, s, "diff x x^3"))
	exec(t, s, "let x = 3")
	assert.Equal(t, "6", exec(t, s, "d/dx(x^2)"))
	// the bound x is not substituted into the derivative
	assert.Equal(t, "x*2", exec(t, s, "diff x x^2"))
	assert.Equal(t, "9", exec(t, s, "diff y x^2 y"))
}

func TestSession_Solve(t *testing.T) {
	s := newSession()
	out := exec(t, s, "solve x^2 = 4")
	require.True(t, strings.HasPrefix(out, "x = "), out)
	x, err := strconv.ParseFloat(strings.TrimPrefix(out, "x = "), 64)
	require.NoError(t, err)
	assert.InDelta(t, 2, x, 1e-3)

	exec(t, s, "let g = -3")
	out = exec(t, s, "solve x^2 = 4 @ g")
	x, err = strconv.ParseFloat(strings.TrimPrefix(out, "x = "), 64)
	require.NoError(t, err)
	assert.InDelta(t, -2, x, 1e-3)

	_, err = s.Exec("solve x^2")
	assert.ErrorIs(t, err, xcalc.ErrNotEquation)
}

func TestSession_System(t *testing.T) {
	s := newSession()
	var x, y float64
	out := exec(t, s, "system x + y = 3 ; x - y = 1")
	_, err := fmt.Sscanf(out, "x = %g, y = %g", &x, &y)
	require.NoError(t, err, out)
	assert.InDelta(t, 2, x, 1e-4)
	assert.InDelta(t, 1, y, 1e-4)

	out = exec(t, s, "system x^2 + y^2 = 4 ; x - y = 0 @ 1, 0.5")
	_, err = fmt.Sscanf(out, "x = %g, y = %g", &x, &y)
	require.NoError(t, err, out)
	assert.InDelta(t, 1.41421356, x, 1e-4)

	_, err = s.Exec("system x + y = 3")
	assert.Error(t, err)
	_, err = s.Exec("system x = 1 ; y = 2 @ 1")
	assert.Error(t, err)
}

func TestSession_LaTeXAndTree(t *testing.T) {
	s := newSession()
	assert.Equal(t, "x^{2}", exec(t, s, "latex x^2"))
	assert.Equal(t, "1", exec(t, s, "latex sin(π/2)"))
	assert.Contains(t, exec(t, s, "tree x^2"), "xcalc.Pow")
}

func TestSession_Trace(t *testing.T) {
	s := newSession()
	var buf bytes.Buffer
	s.Trace = &buf
	exec(t, s, "x + 1")
	assert.Contains(t, buf.String(), "xcalc.Add")
}

func TestSession_Control(t *testing.T) {
	s := newSession()
	assert.Contains(t, exec(t, s, "help"), "solve <eq>")

	_, err := s.Exec("quit")
	assert.ErrorIs(t, err, xcalc.ErrQuit)
	_, err = s.Exec("exit")
	assert.ErrorIs(t, err, xcalc.ErrQuit)

	_, err = s.Exec("plot sin x")
	assert.ErrorIs(t, err, xcalc.ErrUnknownCommand)
	assert.EqualError(t, err, "plot: unknown command")
}

func TestSession_Errors(t *testing.T) {
	s := newSession()
	_, err := s.Exec("1 +")
	var se *xcalc.SyntaxError
	assert.ErrorAs(t, err, &se)

	_, err = s.Exec("1/0")
	assert.ErrorIs(t, err, xcalc.ErrUndefined)
	assert.EqualError(t, err, "eval: undefined")

	_, err = s.Exec("d/dx(x) = 1")
	assert.ErrorIs(t, err, xcalc.ErrDifferentialEquation)
}
