package xcalc

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Toolbox serves tool calls against one engine. Solve calls without a
// max_iter param use the toolbox options.
type Toolbox struct {
	eng  *Engine
	opts SolveOptions
}

func NewToolbox(eng *Engine, opts SolveOptions) *Toolbox {
	return &Toolbox{eng: eng, opts: opts}
}

var defaultToolbox = NewToolbox(New(), DefaultSolveOptions())

// HandleToolCall serves req with a shared engine and default options.
func HandleToolCall(req ToolRequest) ToolResponse { return defaultToolbox.Handle(req) }

// toExpr accepts either source text or an encoded tree.
func toExpr(v interface{}) (Node, error) {
	switch x := v.(type) {
	case string:
		return Parse(x)
	case map[string]interface{}:
		return FromJSON(x)
	}
	return nil, errors.New("expression must be a string or an object")
}

func (t *Toolbox) Handle(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Node, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, errors.Errorf("missing param: %s", key)
		}
		n, err := toExpr(v)
		return n, errors.Wrapf(err, "param %s", key)
	}
	getExprList := func(key string) ([]Node, error) {
		raw, ok := req.Params[key].([]interface{})
		if !ok {
			return nil, errors.Errorf("param %s must be an array", key)
		}
		out := make([]Node, len(raw))
		for i, r := range raw {
			n, err := toExpr(r)
			if err != nil {
				return nil, errors.Wrapf(err, "param %s[%d]", key, i)
			}
			out[i] = n
		}
		return out, nil
	}
	getVar := func(key string) (rune, error) {
		s, ok := req.Params[key].(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return 0, errors.Errorf("param %s must be a single character", key)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	getVars := func(key string) ([]rune, error) {
		raw, ok := req.Params[key].([]interface{})
		if !ok {
			return nil, errors.Errorf("param %s must be an array", key)
		}
		out := make([]rune, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok || utf8.RuneCountInString(s) != 1 {
				return nil, errors.Errorf("param %s[%d] must be a single character", key, i)
			}
			out[i], _ = utf8.DecodeRuneInString(s)
		}
		return out, nil
	}
	getNumbers := func(key string, n int) ([]float64, error) {
		raw, ok := req.Params[key].([]interface{})
		if !ok || len(raw) != n {
			return nil, errors.Errorf("param %s must be an array of %d numbers", key, n)
		}
		out := make([]float64, n)
		for i, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return nil, errors.Errorf("param %s[%d] must be a number", key, i)
			}
			out[i] = f
		}
		return out, nil
	}
	getBindings := func() (Bindings, error) {
		v, ok := req.Params["bindings"]
		if !ok {
			return nil, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.New("param bindings must be an object")
		}
		b := make(Bindings, len(raw))
		for k, x := range raw {
			f, ok := x.(float64)
			if !ok || utf8.RuneCountInString(k) != 1 {
				return nil, errors.Errorf("binding %q must map one character to a number", k)
			}
			r, _ := utf8.DecodeRuneInString(k)
			b[r] = f
		}
		return b, nil
	}
	getOptions := func() (*SolveOptions, error) {
		opts := t.opts
		if v, ok := req.Params["max_iter"]; ok {
			f, ok := v.(float64)
			if !ok {
				return nil, errors.New("param max_iter must be a number")
			}
			opts.MaxIter = int(f)
		}
		return &opts, nil
	}

	fail := func(err error) ToolResponse {
		return ToolResponse{Error: errors.Wrap(err, req.Tool).Error()}
	}
	respond := func(n Node) ToolResponse {
		return ToolResponse{Result: n.toJSON(), LaTeX: n.LaTeX(), String: n.String()}
	}

	switch req.Tool {
	case "parse":
		n, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(n)

	case "evaluate":
		n, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		b, err := getBindings()
		if err != nil {
			return fail(err)
		}
		r, err := t.eng.Eval(n, b)
		if err != nil {
			return fail(err)
		}
		return respond(r)

	case "differentiate":
		n, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getVar("var")
		if err != nil {
			return fail(err)
		}
		b, err := getBindings()
		if err != nil {
			return fail(err)
		}
		d, err := t.eng.Diff(n, v, b)
		if err != nil {
			return fail(err)
		}
		if d, err = t.eng.Eval(d, b.without(v)); err != nil {
			return fail(err)
		}
		return respond(d)

	case "solve_equation":
		eq, err := getExpr("equation")
		if err != nil {
			return fail(err)
		}
		guess := 1.0
		if v, ok := req.Params["guess"]; ok {
			if guess, ok = v.(float64); !ok {
				return fail(errors.New("param guess must be a number"))
			}
		}
		opts, err := getOptions()
		if err != nil {
			return fail(err)
		}
		x, err := t.eng.SolveEquation(eq, guess, opts)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]float64{"x": x},
			String: "x = " + formatFloat(x),
		}

	case "solve_system":
		eqs, err := getExprList("equations")
		if err != nil {
			return fail(err)
		}
		if len(eqs) != 2 {
			return fail(errors.New("param equations must hold exactly 2 equations"))
		}
		guess := [2]float64{}
		if _, ok := req.Params["guess"]; ok {
			g, err := getNumbers("guess", 2)
			if err != nil {
				return fail(err)
			}
			guess = [2]float64{g[0], g[1]}
		}
		opts, err := getOptions()
		if err != nil {
			return fail(err)
		}
		sol, err := t.eng.SolveSystem(eqs[0], eqs[1], guess, opts)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]float64{"x": sol[0], "y": sol[1]},
			String: fmt.Sprintf("x = %s, y = %s", formatFloat(sol[0]), formatFloat(sol[1])),
		}

	case "jacobian":
		fs, err := getExprList("exprs")
		if err != nil {
			return fail(err)
		}
		vars, err := getVars("vars")
		if err != nil {
			return fail(err)
		}
		b, err := getBindings()
		if err != nil {
			return fail(err)
		}
		m, err := t.eng.Jacobian(fs, vars, b)
		if err != nil {
			return fail(err)
		}
		rows := make([][]interface{}, m.rows)
		for i := range rows {
			rows[i] = make([]interface{}, m.cols)
			for j := range rows[i] {
				rows[i][j] = m.data[i][j].toJSON()
			}
		}
		return ToolResponse{
			Result: map[string]interface{}{"rows": m.rows, "cols": m.cols, "entries": rows},
			LaTeX:  m.LaTeX(),
			String: m.String(),
		}

	case "to_latex":
		n, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return ToolResponse{LaTeX: n.LaTeX(), String: n.String()}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema of every tool served by Handle.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("parse", "Parse an expression or equation into a tree. Expressions are source text or tree objects", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("evaluate", "Simplify and evaluate. Optional: bindings {var: number}", []string{"expr"}, map[string]string{"expr": "string", "bindings": "object"}),
		ts("differentiate", "Evaluated derivative d/dvar. Optional: bindings", []string{"expr", "var"}, map[string]string{"expr": "string", "var": "string", "bindings": "object"}),
		ts("solve_equation", "Newton root of an equation in x. Optional: guess (default 1), max_iter", []string{"equation"}, map[string]string{"equation": "string", "guess": "number", "max_iter": "integer"}),
		ts("solve_system", "Newton root of two equations in x, y. Optional: guess [gx, gy], max_iter", []string{"equations"}, map[string]string{"equations": "array", "guess": "array", "max_iter": "integer"}),
		ts("jacobian", "Jacobian matrix. Requires exprs (array) and vars (array)", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array", "bindings": "object"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
