// Package xcalc is a small symbolic and numeric calculator.
//
// Source text is scanned and parsed into an immutable expression tree of
// numbers, single-character symbols, unary functions, powers, product and sum
// chains, derivative markers and equations:
//
//	n, err := xcalc.Parse("x^2 - 4 = 0")
//
// An Engine simplifies and evaluates trees against the constants π and e and
// caller supplied bindings, differentiates them symbolically, and finds roots
// with Newton's method:
//
//	eng := xcalc.New()
//	v, _ := eng.Eval(xcalc.MustParse("2x + 1"), xcalc.Bindings{'x': 3}) // 7
//	d, _ := eng.Diff(xcalc.MustParse("sin(x^2)"), 'x', nil)
//	root, _ := eng.SolveEquation(n, 1, nil) // 2
//
// Numeric failures (0^0, division by zero, ln(0), log(0), csc at a multiple of
// π) are reported as errors rather than as NaN or ±Inf. Trees render back to
// parseable text with String and to LaTeX with LaTeX, and travel as JSON via
// ToJSON and FromJSON.
//
// Session implements the line-oriented calculator of cmd/xcalc and Toolbox
// the JSON tool surface of cmd/mcp-server.
package xcalc
