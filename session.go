package xcalc

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

var (
	// ErrQuit is returned by Exec for quit and exit.
	ErrQuit = errors.New("quit")
	// ErrUnknownCommand is returned for a leading word that is neither a
	// command nor the start of an expression.
	ErrUnknownCommand = errors.New("unknown command")
)

const sessionHelp = `commands:
  <expr>                        evaluate an expression or d/dx(...) derivative
  <lhs> = <rhs>                 evaluate both sides of an equation
  let v = <expr>                bind v to the value of expr
  unset v                       drop the binding of v
  vars                          list bindings
  solve <eq> [@ g]              Newton root in x (default guess 1)
  system <eq1> ; <eq2> [@ gx, gy]
                                Newton root in x, y (default guess 0, 0)
  diff v <expr>                 derivative with respect to v
  latex <expr>                  LaTeX of the evaluated expression
  tree <expr>                   dump the parsed tree
  help                          this text
  quit, exit                    leave`

// Session is one interactive calculator: an engine plus bindings that
// persist from line to line. A Session is not safe for concurrent use.
type Session struct {
	eng  *Engine
	vars Bindings
	opts SolveOptions

	// Trace, when set, receives a dump of every tree parsed by Exec.
	Trace io.Writer
}

func NewSession(eng *Engine, opts SolveOptions) *Session {
	return &Session{eng: eng, vars: Bindings{}, opts: opts}
}

// Bindings returns a copy of the session bindings.
func (s *Session) Bindings() Bindings {
	out := make(Bindings, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

func (s *Session) parse(src string) (Node, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if s.Trace != nil {
		pretty.Fprintf(s.Trace, "%# v\n", n)
	}
	return n, nil
}

// number parses and evaluates src, which must fold to a number.
func (s *Session) number(src string) (float64, error) {
	n, err := s.parse(src)
	if err != nil {
		return 0, err
	}
	v, err := s.eng.Eval(n, s.vars)
	if err != nil {
		return 0, errors.Wrap(err, "eval")
	}
	return numeric(v)
}

func parseVar(src string) (rune, error) {
	src = strings.TrimSpace(src)
	r, w := utf8.DecodeRuneInString(src)
	if w == 0 || w != len(src) || !unicode.IsLetter(r) {
		return 0, errors.Errorf("%q is not a variable", src)
	}
	return r, nil
}

// Exec runs one line and returns the text to print. Errors leave the
// session unchanged.
func (s *Session) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		return sessionHelp, nil
	case "quit", "exit":
		return "", ErrQuit
	case "vars":
		return s.listVars(), nil
	case "let":
		return s.let(rest)
	case "unset":
		v, err := parseVar(rest)
		if err != nil {
			return "", errors.Wrap(err, "unset")
		}
		delete(s.vars, v)
		return "", nil
	case "solve":
		return s.solve(rest)
	case "system":
		return s.system(rest)
	case "diff":
		return s.diff(rest)
	case "latex":
		n, err := s.eval(rest)
		if err != nil {
			return "", err
		}
		return n.LaTeX(), nil
	case "tree":
		n, err := s.parse(rest)
		if err != nil {
			return "", err
		}
		return pretty.Sprintf("%# v", n), nil
	}

	n, err := s.eval(line)
	if err != nil && rest != "" && isWord(cmd) {
		return "", errors.Wrap(ErrUnknownCommand, cmd)
	}
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// isWord reports whether w looks like a command name rather than a run of
// implicitly multiplied variables.
func isWord(w string) bool {
	if utf8.RuneCountInString(w) < 2 {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (s *Session) eval(src string) (Node, error) {
	n, err := s.parse(src)
	if err != nil {
		return nil, err
	}
	r, err := s.eng.Eval(n, s.vars)
	if err != nil {
		return nil, errors.Wrap(err, "eval")
	}
	return r, nil
}

func (s *Session) listVars() string {
	names := make([]rune, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	slices.Sort(names)
	lines := make([]string, len(names))
	for i, k := range names {
		lines[i] = fmt.Sprintf("%c = %s", k, formatFloat(s.vars[k]))
	}
	return strings.Join(lines, "\n")
}

func (s *Session) let(rest string) (string, error) {
	name, src, ok := strings.Cut(rest, "=")
	if !ok {
		return "", errors.New("let: expected let v = <expr>")
	}
	v, err := parseVar(name)
	if err != nil {
		return "", errors.Wrap(err, "let")
	}
	if _, ok := s.eng.Constant(v); ok {
		return "", errors.Errorf("let: %c is a constant", v)
	}
	x, err := s.number(src)
	if err != nil {
		return "", errors.Wrap(err, "let")
	}
	s.vars[v] = x
	return fmt.Sprintf("%c = %s", v, formatFloat(x)), nil
}

func (s *Session) solve(rest string) (string, error) {
	src, guessSrc, hasGuess := strings.Cut(rest, "@")
	guess := 1.0
	if hasGuess {
		var err error
		if guess, err = s.number(guessSrc); err != nil {
			return "", errors.Wrap(err, "solve: guess")
		}
	}
	eq, err := s.parse(src)
	if err != nil {
		return "", errors.Wrap(err, "solve")
	}
	opts := s.opts
	x, err := s.eng.SolveEquation(eq, guess, &opts)
	if err != nil {
		return "", errors.Wrap(err, "solve")
	}
	return "x = " + formatFloat(x), nil
}

func (s *Session) system(rest string) (string, error) {
	src, guessSrc, hasGuess := strings.Cut(rest, "@")
	var guess [2]float64
	if hasGuess {
		gx, gy, ok := strings.Cut(guessSrc, ",")
		if !ok {
			return "", errors.New("system: guess must be gx, gy")
		}
		for i, g := range []string{gx, gy} {
			v, err := s.number(g)
			if err != nil {
				return "", errors.Wrap(err, "system: guess")
			}
			guess[i] = v
		}
	}
	first, second, ok := strings.Cut(src, ";")
	if !ok {
		return "", errors.New("system: expected <eq1> ; <eq2>")
	}
	eq1, err := s.parse(first)
	if err != nil {
		return "", errors.Wrap(err, "system")
	}
	eq2, err := s.parse(second)
	if err != nil {
		return "", errors.Wrap(err, "system")
	}
	opts := s.opts
	sol, err := s.eng.SolveSystem(eq1, eq2, guess, &opts)
	if err != nil {
		return "", errors.Wrap(err, "system")
	}
	return fmt.Sprintf("x = %s, y = %s", formatFloat(sol[0]), formatFloat(sol[1])), nil
}

func (s *Session) diff(rest string) (string, error) {
	name, src, _ := strings.Cut(rest, " ")
	v, err := parseVar(name)
	if err != nil {
		return "", errors.Wrap(err, "diff")
	}
	n, err := s.parse(src)
	if err != nil {
		return "", errors.Wrap(err, "diff")
	}
	d, err := s.eng.Diff(n, v, s.vars)
	if err != nil {
		return "", errors.Wrap(err, "diff")
	}
	if d, err = s.eng.Eval(d, s.vars.without(v)); err != nil {
		return "", errors.Wrap(err, "diff")
	}
	return d.String(), nil
}
