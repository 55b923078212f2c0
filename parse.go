package xcalc

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDifferentialEquation is returned for a derivative marker on the left of
// an equation.
var ErrDifferentialEquation = errors.New("differential equations are not supported")

type parser struct {
	toks []Token
	pos  int
}

// Parse scans and parses one line of input into a tree. Product and sum
// chains holding a single multiply- or add-tagged element are collapsed to
// that element, so the result is already in the shape Eval produces.
func Parse(input string) (Node, error) {
	toks, err := Scan(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parse()
}

// MustParse is like Parse but panics on error. It is meant for fixed
// expressions in programs and tests.
func MustParse(input string) Node {
	n, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("xcalc: Parse(%q): %v", input, err))
	}
	return n
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(i int) Token {
	if p.pos+i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+i]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) accept(typ TokenType) (Token, bool) {
	if p.peek().Type != typ {
		return Token{}, false
	}
	return p.advance(), true
}

func (p *parser) expect(typ TokenType) (Token, error) {
	if t, ok := p.accept(typ); ok {
		return t, nil
	}
	got := p.peek()
	return Token{}, &SyntaxError{Pos: got.Pos, Msg: fmt.Sprintf("expected %s, got %s", typ, got)}
}

func (p *parser) unexpected() error {
	got := p.peek()
	return &SyntaxError{Pos: got.Pos, Msg: fmt.Sprintf("unexpected %s", got)}
}

// input := derivative [ "=" expr ] EOF
func (p *parser) parse() (Node, error) {
	n, err := p.parseDerivative()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(TokEquals); ok {
		if _, isDeriv := n.(*Deriv); isDeriv {
			return nil, ErrDifferentialEquation
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		n = Eq(n, rhs)
	}
	if _, err := p.expect(TokEOF); err != nil {
		return nil, err
	}
	return n, nil
}

func isVar(t Token, r rune) bool { return t.Type == TokVar && t.Var == r }

// derivative := "d" "/" "d" VAR "(" derivative ")" | expr
func (p *parser) parseDerivative() (Node, error) {
	if !isVar(p.peekAt(0), 'd') || p.peekAt(1).Type != TokDiv ||
		!isVar(p.peekAt(2), 'd') || p.peekAt(3).Type != TokVar {
		return p.parseExpr()
	}
	p.advance()
	p.advance()
	p.advance()
	v := p.advance().Var
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	inner, err := p.parseDerivative()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return DerivOf(inner, v), nil
}

// expr := [ "-" ] term { ("+" | "-") term }
func (p *parser) parseExpr() (Node, error) {
	op := OpAdd
	if _, ok := p.accept(TokMinus); ok {
		op = OpSub
	}
	var terms []Term
	for {
		x, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Op: op, X: x})
		if _, ok := p.accept(TokPlus); ok {
			op = OpAdd
		} else if _, ok := p.accept(TokMinus); ok {
			op = OpSub
		} else {
			break
		}
	}
	if len(terms) == 1 && terms[0].Op == OpAdd {
		return terms[0].X, nil
	}
	return &Add{terms: terms}, nil
}

// term := factors { "*" factors | "/" factors }
//
// A "*" splices the next group into the chain; a "/" divides by the whole
// group, so 1/2x is 1/(2x).
func (p *parser) parseTerm() (Node, error) {
	fs, err := p.parseFactors()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(TokMul); ok {
			next, err := p.parseFactors()
			if err != nil {
				return nil, err
			}
			fs = append(fs, next...)
		} else if _, ok := p.accept(TokDiv); ok {
			next, err := p.parseFactors()
			if err != nil {
				return nil, err
			}
			fs = append(fs, Over(collapseFactors(next)))
		} else {
			break
		}
	}
	return collapseFactors(fs), nil
}

func collapseFactors(fs []Factor) Node {
	if len(fs) == 1 && fs[0].Op == OpMul {
		return fs[0].X
	}
	return &Mul{factors: fs}
}

// factors := factor { atomFactor }
func (p *parser) parseFactors() ([]Factor, error) {
	x, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	fs := []Factor{Times(x)}
	for startsAtom(p.peek()) {
		x, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if x, err = p.parseRaise(x); err != nil {
			return nil, err
		}
		fs = append(fs, Times(x))
	}
	return fs, nil
}

func startsAtom(t Token) bool {
	switch t.Type {
	case TokVar, TokFunc, TokLParen:
		return true
	}
	return false
}

// factor := quantity [ "^" factor ]
func (p *parser) parseFactor() (Node, error) {
	x, err := p.parseQuantity()
	if err != nil {
		return nil, err
	}
	return p.parseRaise(x)
}

func (p *parser) parseRaise(base Node) (Node, error) {
	if _, ok := p.accept(TokRaise); !ok {
		return base, nil
	}
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

// quantity := [ "-" ] NUM | atom
//
// The sign is only taken when a number follows, which is how negative
// literals are rendered inside products and powers.
func (p *parser) parseQuantity() (Node, error) {
	if t, ok := p.accept(TokNum); ok {
		return N(t.Num), nil
	}
	if p.peek().Type == TokMinus && p.peekAt(1).Type == TokNum {
		p.advance()
		return N(-p.advance().Num), nil
	}
	return p.parseAtom()
}

// atom := VAR | FUNC "(" expr ")" | "(" expr ")"
func (p *parser) parseAtom() (Node, error) {
	switch t := p.peek(); t.Type {
	case TokVar:
		p.advance()
		return S(t.Var), nil
	case TokFunc:
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return FuncOf(t.Func, arg), nil
	case TokLParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.unexpected()
}
