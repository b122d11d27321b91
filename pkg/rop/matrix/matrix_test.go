package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func mustRows(t *testing.T, values [][]int64) Matrix {
	t.Helper()
	m, err := FromRows(values)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	m, err := New(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, "0 0 0\n0 0 0\n", m.String())

	_, err = New(-1, 2)
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestFromRows(t *testing.T) {
	m := mustRows(t, [][]int64{{1, 2}, {3, 4}})
	assert.Equal(t, int64(3), m.At(1, 0))
	assert.Equal(t, []int64{3, 4}, m.Row(1))

	_, err := FromRows([][]int64{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrRagged)

	empty, err := FromRows(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Rows())
}

func TestSetAndRowAreIndependent(t *testing.T) {
	m := mustRows(t, [][]int64{{1, 2}, {3, 4}})
	row := m.Row(0)
	row[0] = 100
	assert.Equal(t, int64(1), m.At(0, 0))

	m.Set(0, 1, 7)
	assert.Equal(t, int64(7), m.At(0, 1))
	assert.Panics(t, func() { m.At(2, 0) })
}

func TestEqual(t *testing.T) {
	a := mustRows(t, [][]int64{{1, 2}, {3, 4}})
	assert.True(t, a.Equal(mustRows(t, [][]int64{{1, 2}, {3, 4}})))
	assert.False(t, a.Equal(mustRows(t, [][]int64{{1, 2, 3, 4}})))
	assert.False(t, a.Equal(mustRows(t, [][]int64{{1, 2}, {3, 5}})))
}

func TestDense(t *testing.T) {
	m := mustRows(t, [][]int64{{1, 2, 3}, {4, 5, math.MaxInt32}})
	want := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, math.MaxInt32})
	assert.True(t, mat.Equal(want, m.Dense()))
}
