package console

import (
	"math/rand/v2"

	"github.com/ib-77/railyard/pkg/rop/matrix"
)

// Generate fills a rows×cols matrix with values in [0, 9].
func Generate(rows, cols int, rnd *rand.Rand) (matrix.Matrix, error) {
	m, err := matrix.New(rows, cols)
	if err != nil {
		return matrix.Matrix{}, err
	}
	for i := range rows {
		for j := range cols {
			m.Set(i, j, rnd.Int64N(10))
		}
	}
	return m, nil
}

// NewRand returns a generator seeded with seed, or a randomly seeded one when
// seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
