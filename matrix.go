package xcalc

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix — symbolic matrix
// ============================================================

type Matrix struct {
	rows, cols int
	data       [][]Node
}

func NewMatrix(rows, cols int) *Matrix {
	data := make([][]Node, rows)
	for i := range data {
		data[i] = make([]Node, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func MatrixFromSlice(rows, cols int, entries []Node) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("xcalc: MatrixFromSlice needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i][j] = entries[i*cols+j]
		}
	}
	return m
}

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("xcalc: matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) Node {
	m.checkBounds(row, col)
	return m.data[row][col]
}
func (m *Matrix) Set(row, col int, val Node) {
	m.checkBounds(row, col)
	m.data[row][col] = val
}
func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.data[i][j].String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{pmatrix}")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(m.data[i][j].LaTeX())
		}
	}
	sb.WriteString("\\end{pmatrix}")
	return sb.String()
}

// Jacobian returns the len(fs)×len(vars) matrix of evaluated partial
// derivatives ∂fs[i]/∂vars[j].
func (e *Engine) Jacobian(fs []Node, vars []rune, b Bindings) (*Matrix, error) {
	m := NewMatrix(len(fs), len(vars))
	for i, f := range fs {
		for j, v := range vars {
			d, err := e.Diff(f, v, b)
			if err != nil {
				return nil, err
			}
			if d, err = e.Eval(d, b); err != nil {
				return nil, err
			}
			m.data[i][j] = d
		}
	}
	return m, nil
}

// Det returns the evaluated determinant of a square matrix by cofactor
// expansion along the first row.
func (e *Engine) Det(m *Matrix, b Bindings) (Node, error) {
	if m.rows != m.cols {
		return nil, ErrNonSquare
	}
	return e.matDet(m.data, m.rows, b)
}

func (e *Engine) matDet(data [][]Node, n int, b Bindings) (Node, error) {
	if n == 1 {
		return e.Eval(data[0][0], b)
	}
	if n == 2 {
		return e.Eval(AddOf(
			Plus(Product(data[0][0], data[1][1])),
			Minus(Product(data[0][1], data[1][0])),
		), b)
	}
	terms := make([]Term, n)
	for j := 0; j < n; j++ {
		minor, err := e.matDet(makeMinor(data, n, 0, j), n-1, b)
		if err != nil {
			return nil, err
		}
		t := Plus(Product(data[0][j], minor))
		if j%2 == 1 {
			t.Op = OpSub
		}
		terms[j] = t
	}
	return e.Eval(AddOf(terms...), b)
}

func makeMinor(data [][]Node, n, skipRow, skipCol int) [][]Node {
	minor := make([][]Node, n-1)
	mi := 0
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		minor[mi] = make([]Node, n-1)
		mj := 0
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			minor[mi][mj] = data[i][j]
			mj++
		}
		mi++
	}
	return minor
}

// Inverse returns the adjugate of m divided by its determinant, every entry
// evaluated, together with the determinant. A determinant that folds to 0
// surfaces as ErrUndefined from the division.
func (e *Engine) Inverse(m *Matrix, b Bindings) (*Matrix, Node, error) {
	if m.rows != m.cols {
		return nil, nil, ErrNonSquare
	}
	det, err := e.Det(m, b)
	if err != nil {
		return nil, nil, err
	}
	n := m.rows
	inv := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var cof Node = N(1)
			if n > 1 {
				// minor of (j, i): the adjugate is the transposed cofactor matrix
				if cof, err = e.matDet(makeMinor(m.data, n, j, i), n-1, b); err != nil {
					return nil, nil, err
				}
			}
			fs := []Factor{Times(cof), Over(det)}
			if (i+j)%2 == 1 {
				fs = append([]Factor{Times(N(-1))}, fs...)
			}
			if inv.data[i][j], err = e.Eval(MulOf(fs...), b); err != nil {
				return nil, nil, err
			}
		}
	}
	return inv, det, nil
}
