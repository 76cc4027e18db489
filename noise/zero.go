package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Zero leaves control objective undisturbed
type Zero struct {
	// size is the number of control objectives
	size int
}

// NewZero creates new zero noise for size control objectives and returns it.
// It returns error if size is negative.
func NewZero(size int) (*Zero, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid noise dimension: %d", size)
	}

	return &Zero{size: size}, nil
}

// Sample returns zero vector.
func (z *Zero) Sample() mat.Vector {
	if z.size == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(z.size, nil)
}

// Cov returns zero covariance matrix.
func (z *Zero) Cov() mat.Symmetric {
	if z.size == 0 {
		return &mat.SymDense{}
	}
	return mat.NewSymDense(z.size, nil)
}

// Mean returns zero mean.
func (z *Zero) Mean() []float64 {
	return make([]float64, z.size)
}

// Reset does nothing: Zero noise has no state.
func (z *Zero) Reset() error {
	return nil
}

// String implements the Stringer interface.
func (z *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\nCov=%v\n}", z.Mean(), mat.Formatted(z.Cov(), mat.Prefix("    "), mat.Squeeze()))
}
