package lsq

import (
	"fmt"
	"math"
)

// DefaultRankTol is default relative tolerance used to determine pseudo-rank
const DefaultRankTol = 1e-12

// Householder solves linear least squares problems using Householder QR
// factorization with column pivoting. It operates on work buffers allocated
// by NewHouseholder, so Solve never allocates.
//
// Columns of A are pivoted by the largest remaining sum of squares. The
// pseudo-rank k is the number of leading diagonal elements of R exceeding
// RankTol*|R[0][0]| in magnitude. When k is smaller than the number of
// columns the solution is the basic solution: components corresponding to
// the trailing pivoted columns are set to zero.
type Householder struct {
	// RankTol is relative tolerance for pseudo-rank determination
	RankTol float64
	// maxRows is the maximum number of rows
	maxRows int
	// maxCols is the maximum number of columns
	maxCols int
	// qr stores the factorized matrix in column-major order
	qr []float64
	// rhs stores the transformed right hand side
	rhs []float64
	// diag stores diagonal of R
	diag []float64
	// perm stores column interchanges
	perm []int
	// z stores the solution in pivoted order
	z []float64
}

// NewHouseholder creates new Householder solver for problems with at most maxRows rows
// and maxCols columns and returns it. It returns error if either of the sizes is not positive.
func NewHouseholder(maxRows, maxCols int) (*Householder, error) {
	if maxRows <= 0 || maxCols <= 0 {
		return nil, fmt.Errorf("invalid solver dimensions: [%d x %d]", maxRows, maxCols)
	}

	return &Householder{
		RankTol: DefaultRankTol,
		maxRows: maxRows,
		maxCols: maxCols,
		qr:      make([]float64, maxRows*maxCols),
		rhs:     make([]float64, maxRows),
		diag:    make([]float64, maxCols),
		perm:    make([]int, maxCols),
		z:       make([]float64, maxCols),
	}, nil
}

// Solve finds x which minimizes ||A*x - b|| where A is m x n matrix stored in a in column-major order.
// It returns error if the problem does not fit the solver or if the supplied slices are too short.
func (h *Householder) Solve(m, n int, a, b, x []float64) error {
	if m <= 0 || n <= 0 || m > h.maxRows || n > h.maxCols {
		return fmt.Errorf("invalid problem dimensions: [%d x %d]", m, n)
	}

	if len(a) < m*n || len(b) < m || len(x) < n {
		return fmt.Errorf("invalid problem data length")
	}

	q := h.qr[:m*n]
	copy(q, a[:m*n])
	rhs := h.rhs[:m]
	copy(rhs, b[:m])

	k := n
	if m < n {
		k = m
	}

	for j := 0; j < n; j++ {
		h.perm[j] = j
		h.diag[j] = 0
	}

	for j := 0; j < k; j++ {
		// pick the remaining column with the largest norm
		best, bestNorm := j, -1.0
		for c := j; c < n; c++ {
			s := 0.0
			for _, v := range q[c*m+j : c*m+m] {
				s += v * v
			}
			if s > bestNorm {
				best, bestNorm = c, s
			}
		}

		h.perm[j] = best
		if best != j {
			cj, cb := q[j*m:j*m+m], q[best*m:best*m+m]
			for i := range cj {
				cj[i], cb[i] = cb[i], cj[i]
			}
		}

		if bestNorm == 0 {
			// all remaining columns vanish
			break
		}

		norm := math.Sqrt(bestNorm)
		col := q[j*m : j*m+m]
		x0 := col[j]
		alpha := -math.Copysign(norm, x0)
		// col[j:] now stores Householder vector v = x - alpha*e1
		col[j] = x0 - alpha
		vtv := 2 * norm * (norm + math.Abs(x0))

		for c := j + 1; c < n; c++ {
			reflect(q[c*m+j:c*m+m], col[j:], vtv)
		}
		reflect(rhs[j:], col[j:], vtv)

		h.diag[j] = alpha
	}

	// pseudo-rank
	rank := 0
	tol := h.RankTol * math.Abs(h.diag[0])
	for rank < k && math.Abs(h.diag[rank]) > tol {
		rank++
	}

	z := h.z[:n]
	for i := rank; i < n; i++ {
		z[i] = 0
	}

	// back substitution R[:rank,:rank] * z = Q'b
	for i := rank - 1; i >= 0; i-- {
		s := rhs[i]
		for c := i + 1; c < rank; c++ {
			s -= q[c*m+i] * z[c]
		}
		z[i] = s / h.diag[i]
	}

	// undo column interchanges
	for j := k - 1; j >= 0; j-- {
		p := h.perm[j]
		z[j], z[p] = z[p], z[j]
	}
	copy(x[:n], z)

	return nil
}

// reflect applies Householder reflection H = I - 2*v*v'/vtv to y in place.
func reflect(y, v []float64, vtv float64) {
	s := 0.0
	for i, vi := range v {
		s += vi * y[i]
	}

	f := 2 * s / vtv
	for i, vi := range v {
		y[i] -= f * vi
	}
}
