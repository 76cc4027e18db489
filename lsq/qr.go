package lsq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// QR solves linear least squares problems using gonum QR factorization.
// Rank-deficient problems are detected from the diagonal of R and solved
// through SVD instead, which yields the minimum-norm least squares solution.
// Unlike Householder, QR allocates on every call.
type QR struct {
	// RankTol is relative tolerance for rank deficiency detection
	RankTol float64
}

// NewQR creates new QR solver with relative rank tolerance tol and returns it.
// Zero tol selects DefaultRankTol. It returns error if tol is negative.
func NewQR(tol float64) (*QR, error) {
	if tol < 0 {
		return nil, fmt.Errorf("invalid rank tolerance: %v", tol)
	}

	if tol == 0 {
		tol = DefaultRankTol
	}

	return &QR{RankTol: tol}, nil
}

// Solve finds x which minimizes ||A*x - b|| where A is m x n matrix stored in a in column-major order.
// It returns error if the problem dimensions are invalid or if SVD factorization fails.
func (s *QR) Solve(m, n int, a, b, x []float64) error {
	if m <= 0 || n <= 0 || m < n {
		return fmt.Errorf("invalid problem dimensions: [%d x %d]", m, n)
	}

	if len(a) < m*n || len(b) < m || len(x) < n {
		return fmt.Errorf("invalid problem data length")
	}

	// column-major m x n data is row-major data of n x m transpose
	at := mat.NewDense(n, m, a[:m*n])
	A := at.T()
	bv := mat.NewVecDense(m, b[:m])
	xv := mat.NewVecDense(n, x[:n])

	var qr mat.QR
	qr.Factorize(A)

	if !s.deficient(&qr, n) {
		if err := qr.SolveVecTo(xv, false, bv); err == nil {
			return nil
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return fmt.Errorf("SVD factorization failed")
	}

	rank := svd.Rank(s.RankTol)
	if rank == 0 {
		xv.Zero()
		return nil
	}
	svd.SolveVecTo(xv, bv, rank)

	return nil
}

func (s *QR) deficient(qr *mat.QR, n int) bool {
	r := &mat.Dense{}
	qr.RTo(r)

	max := 0.0
	for i := 0; i < n; i++ {
		max = math.Max(max, math.Abs(r.At(i, i)))
	}

	if max == 0 {
		return true
	}

	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= s.RankTol*max {
			return true
		}
	}

	return false
}
