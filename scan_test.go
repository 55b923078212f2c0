package xcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuguenot/xcalc"
)

func types(toks []xcalc.Token) []xcalc.TokenType {
	out := make([]xcalc.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestScan_Tokens(t *testing.T) {
	toks, err := xcalc.Scan("2.5x + sin(y)^2 = 1")
	require.NoError(t, err)
	assert.Equal(t, []xcalc.TokenType{
		xcalc.TokNum, xcalc.TokVar, xcalc.TokPlus, xcalc.TokFunc, xcalc.TokLParen,
		xcalc.TokVar, xcalc.TokRParen, xcalc.TokRaise, xcalc.TokNum, xcalc.TokEquals,
		xcalc.TokNum, xcalc.TokEOF,
	}, types(toks))

	assert.Equal(t, 2.5, toks[0].Num)
	assert.Equal(t, 'x', toks[1].Var)
	assert.Equal(t, xcalc.Sin, toks[3].Func)
	assert.Equal(t, 7, toks[3].Pos)
	assert.Equal(t, 19, toks[len(toks)-1].Pos)
}

func TestScan_FunctionPrefixes(t *testing.T) {
	cases := []struct {
		in   string
		want []xcalc.TokenType
	}{
		{"lnx", []xcalc.TokenType{xcalc.TokFunc, xcalc.TokVar, xcalc.TokEOF}},
		{"log", []xcalc.TokenType{xcalc.TokFunc, xcalc.TokEOF}},
		{"sex", []xcalc.TokenType{xcalc.TokVar, xcalc.TokVar, xcalc.TokVar, xcalc.TokEOF}},
		{"cotan", []xcalc.TokenType{xcalc.TokFunc, xcalc.TokVar, xcalc.TokVar, xcalc.TokEOF}},
	}
	for _, c := range cases {
		toks, err := xcalc.Scan(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, types(toks), c.in)
	}
}

func TestScan_Numbers(t *testing.T) {
	toks, err := xcalc.Scan("12 3.25 7.")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, 12.0, toks[0].Num)
	assert.Equal(t, 3.25, toks[1].Num)
	assert.Equal(t, 7.0, toks[2].Num)

	// a second dot ends the number and is then illegal
	_, err = xcalc.Scan("1.2.3")
	var se *xcalc.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Pos)
}

func TestScan_Normalizes(t *testing.T) {
	// e followed by a combining acute accent composes to é
	toks, err := xcalc.Scan("e\u0301 + π")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, 'é', toks[0].Var)
	assert.Equal(t, 'π', toks[2].Var)
}

func TestScan_IllegalCharacter(t *testing.T) {
	_, err := xcalc.Scan("x # y")
	var se *xcalc.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Pos)
	assert.Equal(t, "illegal character: # (at 2)", se.Error())
}
