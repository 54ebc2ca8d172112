package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrDimension = errors.New("matrix dimension mismatch")

type Matrix struct {
	Rows int
	Cols int
	Data [][]int
}

func New(rows, cols int) *Matrix {
	m := &Matrix{Rows: rows, Cols: cols}
	m.Data = make([][]int, rows)
	for r := 0; r < rows; r++ {
		m.Data[r] = make([]int, cols)
	}
	return m
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix{%dx%d}", m.Rows, m.Cols)
}

// Dense returns a float64 view of m for gonum interop. Entries are
// small ints, so the conversion is exact.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			d.Set(r, c, float64(m.Data[r][c]))
		}
	}
	return d
}

// Mul computes the reference product of a and b. The parallel path in
// coord must agree with it for every worker count.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrDimension, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	var d mat.Dense
	d.Mul(a.Dense(), b.Dense())
	m := New(a.Rows, b.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			m.Data[r][c] = int(d.At(r, c))
		}
	}
	return m, nil
}

func Equal(a, b *Matrix) bool {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return false
	}
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			if a.Data[r][c] != b.Data[r][c] {
				return false
			}
		}
	}
	return true
}
