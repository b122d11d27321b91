package matrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch = errors.New("matrix dimensions mismatch")
	ErrOverflow          = errors.New("matrix arithmetic overflow")
	ErrRagged            = errors.New("matrix rows have different lengths")
	ErrInvalidShape      = errors.New("matrix shape is invalid")
)

// Matrix is a rectangular int64 matrix stored row by row.
type Matrix struct {
	rows int
	cols int
	data []int64
}

// New returns a zero-filled rows×cols matrix.
func New(rows, cols int) (Matrix, error) {
	if rows < 0 || cols < 0 {
		return Matrix{}, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	return Matrix{rows: rows, cols: cols, data: make([]int64, rows*cols)}, nil
}

// FromRows copies values into a new matrix. Every row must have the same
// length.
func FromRows(values [][]int64) (Matrix, error) {
	if len(values) == 0 {
		return Matrix{}, nil
	}
	cols := len(values[0])
	m := Matrix{rows: len(values), cols: cols, data: make([]int64, 0, len(values)*cols)}
	for i, row := range values {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, i, len(row), cols)
		}
		m.data = append(m.data, row...)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return Matrix{}, err
	}
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m, nil
}

func (m Matrix) Rows() int { return m.rows }

func (m Matrix) Cols() int { return m.cols }

// Shape formats the dimensions as rows×cols.
func (m Matrix) Shape() string {
	return fmt.Sprintf("%dx%d", m.rows, m.cols)
}

// At panics when i or j is out of range, like a slice index.
func (m Matrix) At(i, j int) int64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

func (m Matrix) Set(i, j int, v int64) {
	m.check(i, j)
	m.data[i*m.cols+j] = v
}

// Row returns a copy of row i.
func (m Matrix) Row(i int) []int64 {
	m.check(i, 0)
	return append([]int64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
}

func (m Matrix) Equal(o Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// String renders one row per line with values separated by a single space.
func (m Matrix) String() string {
	var b strings.Builder
	for i := range m.rows {
		for j := range m.cols {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatInt(m.data[i*m.cols+j], 10))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Dense converts m into a gonum matrix. Values beyond 2^53 lose precision.
func (m Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, len(m.data))
	for i, v := range m.data {
		data[i] = float64(v)
	}
	return mat.NewDense(m.rows, m.cols, data)
}

func (m Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || (j >= m.cols && m.cols > 0) {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for %s", i, j, m.Shape()))
	}
}
