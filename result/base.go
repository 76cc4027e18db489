package result

import (
	"fmt"

	alloc "github.com/milosgajdos/go-alloc"
	"gonum.org/v1/gonum/mat"
)

// Base is base allocation result
type Base struct {
	// val stores actuator commands
	val *mat.VecDense
	// w is the final working set
	w []alloc.State
	// iter is the number of iterations used
	iter int
	// maxIter is iteration budget
	maxIter int
}

// NewBase returns base result given actuator commands val, working set w,
// the number of iterations used iter and iteration budget maxIter.
// It returns error if the dimensions of val and w differ or if iter is outside [1, maxIter+1].
func NewBase(val mat.Vector, w []alloc.State, iter, maxIter int) (*Base, error) {
	if val == nil || val.Len() != len(w) {
		return nil, fmt.Errorf("invalid dimensions: val and working set must have the same length")
	}

	if maxIter <= 0 || iter < 1 || iter > maxIter+1 {
		return nil, fmt.Errorf("invalid iterations: %d of %d", iter, maxIter)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	ws := make([]alloc.State, len(w))
	copy(ws, w)

	return &Base{
		val:     v,
		w:       ws,
		iter:    iter,
		maxIter: maxIter,
	}, nil
}

// Val returns actuator commands
func (b *Base) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(b.val)

	return v
}

// WorkingSet returns the final working set
func (b *Base) WorkingSet() []alloc.State {
	w := make([]alloc.State, len(b.w))
	copy(w, b.w)

	return w
}

// Iter returns the number of iterations used
func (b *Base) Iter() int {
	return b.iter
}

// Converged returns true if the solution was proven optimal within the iteration budget
func (b *Base) Converged() bool {
	return b.iter <= b.maxIter
}

// String implements the Stringer interface.
func (b *Base) String() string {
	return fmt.Sprintf("Result{\nIter=%d/%d\nW=%v\nU=%v\n}", b.iter, b.maxIter, b.w,
		mat.Formatted(b.val.T(), mat.Prefix("  "), mat.Squeeze()))
}
