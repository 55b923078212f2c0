package xcalc

import (
	"encoding/json"
	"slices"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ============================================================
// JSON Serialization
// ============================================================

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val}
}

func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": string(s.name)}
}

func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.kind.String(), "arg": f.arg.toJSON()}
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = map[string]interface{}{"op": f.Op.String(), "expr": f.X.toJSON()}
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}

func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = map[string]interface{}{"op": t.Op.String(), "expr": t.X.toJSON()}
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}

func (d *Deriv) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "deriv", "var": string(d.v), "expr": d.inner.toJSON()}
}

func (e *Equation) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "eq", "lhs": e.lhs.toJSON(), "rhs": e.rhs.toJSON()}
}

// ToJSON encodes e as a JSON object.
func ToJSON(e Node) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// TreeJSON returns the generic JSON value of e, ready to be embedded in a
// larger document.
func TreeJSON(e Node) map[string]interface{} { return e.toJSON() }

// FromJSON decodes a tree previously produced by ToJSON (after a round trip
// through encoding/json into a map). The tree is not simplified.
func FromJSON(data map[string]interface{}) (Node, error) {
	if data == nil {
		return nil, errors.New("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, errors.New("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, errors.New("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Node, error) {
		v, ok := data[field]
		if !ok {
			return nil, errors.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%s: %q must be an object", typ, field)
		}
		n, err := FromJSON(m)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", typ, field)
		}
		return n, nil
	}

	subRune := func(field string) (rune, error) {
		v, ok := data[field]
		if !ok {
			return 0, errors.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return 0, errors.Errorf("%s: %q must be a single character", typ, field)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}

	// chain decodes the "factors"/"terms" array into ops and children.
	chain := func(field string, allowed ...Op) ([]Op, []Node, error) {
		v, ok := data[field]
		if !ok {
			return nil, nil, errors.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, nil, errors.Errorf("%s: %q must be an array", typ, field)
		}
		if len(raw) == 0 {
			return nil, nil, errors.Errorf("%s: %q must not be empty", typ, field)
		}
		ops := make([]Op, len(raw))
		xs := make([]Node, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, nil, errors.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			opStr, _ := m["op"].(string)
			if len(opStr) != 1 || !slices.Contains(allowed, Op(opStr[0])) {
				return nil, nil, errors.Errorf("%s: %q[%d]: invalid op %q", typ, field, i, opStr)
			}
			sub, ok := m["expr"].(map[string]interface{})
			if !ok {
				return nil, nil, errors.Errorf("%s: %q[%d]: 'expr' must be an object", typ, field, i)
			}
			x, err := FromJSON(sub)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s: %s[%d]", typ, field, i)
			}
			ops[i], xs[i] = Op(opStr[0]), x
		}
		return ops, xs, nil
	}

	switch typ {
	case "num":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, errors.New("num: 'value' must be a number")
		}
		return N(v), nil

	case "sym":
		r, err := subRune("name")
		if err != nil {
			return nil, err
		}
		return S(r), nil

	case "func":
		name, _ := data["name"].(string)
		kind, ok := LookupFunc(name)
		if !ok {
			return nil, errors.Errorf("func: unknown function %q", name)
		}
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		return FuncOf(kind, arg), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "mul":
		ops, xs, err := chain("factors", OpMul, OpDiv)
		if err != nil {
			return nil, err
		}
		fs := make([]Factor, len(xs))
		for i := range xs {
			fs[i] = Factor{Op: ops[i], X: xs[i]}
		}
		return &Mul{factors: fs}, nil

	case "add":
		ops, xs, err := chain("terms", OpAdd, OpSub)
		if err != nil {
			return nil, err
		}
		ts := make([]Term, len(xs))
		for i := range xs {
			ts[i] = Term{Op: ops[i], X: xs[i]}
		}
		return &Add{terms: ts}, nil

	case "deriv":
		v, err := subRune("var")
		if err != nil {
			return nil, err
		}
		inner, err := subObj("expr")
		if err != nil {
			return nil, err
		}
		return DerivOf(inner, v), nil

	case "eq":
		lhs, err := subObj("lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := subObj("rhs")
		if err != nil {
			return nil, err
		}
		return Eq(lhs, rhs), nil
	}
	return nil, errors.Errorf("unknown expression type: %s", typ)
}
