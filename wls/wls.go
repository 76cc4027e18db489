package wls

import (
	"fmt"
	"math"

	alloc "github.com/milosgajdos/go-alloc"
	"github.com/milosgajdos/go-alloc/lsq"
	"github.com/milosgajdos/go-alloc/matrix"
	"github.com/milosgajdos/go-alloc/result"
	"gonum.org/v1/gonum/mat"
)

const (
	// MaxActuators is the maximum number of actuators
	MaxActuators = 16
	// MaxObjectives is the maximum number of control objectives
	MaxObjectives = 8
	// maxRows is the maximum number of augmented system rows
	maxRows = MaxActuators + MaxObjectives
)

const (
	// DefaultGamma is used when problem Gamma is zero
	DefaultGamma = 100000.0
	// DefaultMaxIter is used when problem MaxIter is zero
	DefaultMaxIter = 100
)

// Config is WLS configuration
type Config struct {
	// Solver solves reduced least squares systems
	Solver alloc.Solver
	// Tracer observes allocation iterations
	Tracer alloc.Tracer
	// Tol is Lagrange multiplier tolerance
	Tol float64
}

// WLS is active set weighted least squares control allocator.
// WLS reuses its buffers across calls so it must not be used
// concurrently; allocate with distinct WLS values instead.
type WLS struct {
	// solver solves reduced least squares systems
	solver alloc.Solver
	// tracer observes allocation
	tracer alloc.Tracer
	// tol is Lagrange multiplier tolerance
	tol float64
	// ws stores allocation buffers
	ws *workspace
}

// New creates new WLS allocator and returns it.
// It accepts the following configuration, all of which is optional:
//   - Solver: least squares solver; lsq.Householder is used if nil
//   - Tracer: iteration observer; no tracing if nil
//   - Tol:    Lagrange multiplier tolerance; float64 machine epsilon if zero
//
// It returns error if negative tolerance is given or if the solver fails to be created.
func New(c *Config) (*WLS, error) {
	if c == nil {
		c = &Config{}
	}

	if c.Tol < 0 || math.IsNaN(c.Tol) {
		return nil, fmt.Errorf("invalid multiplier tolerance: %v", c.Tol)
	}

	tol := c.Tol
	if tol == 0 {
		tol = math.Nextafter(1, 2) - 1
	}

	solver := c.Solver
	if solver == nil {
		h, err := lsq.NewHouseholder(maxRows, MaxActuators)
		if err != nil {
			return nil, fmt.Errorf("failed to create least squares solver: %v", err)
		}
		solver = h
	}

	return &WLS{
		solver: solver,
		tracer: c.Tracer,
		tol:    tol,
		ws:     &workspace{},
	}, nil
}

// Allocate finds actuator commands within the bounds of problem p which realize its
// control objective best, in the weighted least squares sense, and stores them in u.
// If u is empty it is resized to the number of actuators.
// If w is not nil the final working set is stored in it: w and u can be fed back
// to the next problem as W0 and U0 to warm start the allocation.
//
// Allocate returns the number of iterations used or p.MaxIter+1 if the solution could not
// be proven optimal within the iteration budget. In that case u still contains
// the last feasible command. It returns error if p is invalid or if the least squares solver fails.
func (s *WLS) Allocate(u *mat.VecDense, w []alloc.State, p *alloc.Problem) (int, error) {
	nu, nv, err := check(u, w, p)
	if err != nil {
		return 0, err
	}

	gamma := p.Gamma
	if gamma == 0 {
		gamma = DefaultGamma
	}

	imax := p.MaxIter
	if imax == 0 {
		imax = DefaultMaxIter
	}

	ws := s.ws
	ws.start(p, nu)
	ws.assemble(p, nu, nv, gamma)

	iter, converged, err := s.iterate(nu, nv+nu, imax)

	if u.IsEmpty() {
		u.ReuseAsVec(nu)
	}
	for i := 0; i < nu; i++ {
		u.SetVec(i, ws.u[i])
	}

	if w != nil {
		copy(w, ws.w[:nu])
	}

	if s.tracer != nil {
		s.tracer.Done(alloc.Final{
			Problem:   p,
			Iter:      iter,
			Converged: converged,
			U:         ws.u[:nu],
			Lambda:    ws.lambda[:nu],
			W:         ws.w[:nu],
		})
	}

	return iter, err
}

// iterate runs active set iterations on the assembled system with nc rows.
// It returns the number of iterations used and whether the solution is optimal.
func (s *WLS) iterate(nu, nc, imax int) (int, bool, error) {
	ws := s.ws

	a := matrix.View{Rows: nc, Cols: nu, Stride: MaxActuators, Layout: matrix.RowMajor, Data: ws.a[:]}
	var aFree matrix.View
	version := -1

	for iter := 1; iter <= imax; iter++ {
		free := ws.free.indices()
		nf := len(free)

		// reduced system is only rebuilt when the free set changes
		if version != ws.free.version {
			aFree = matrix.Packed(nc, nf, ws.aFree[:nc*nf])
			if err := matrix.SelectCols(aFree, a, free); err != nil {
				return imax + 1, false, err
			}
			version = ws.free.version
		}

		copy(ws.uOpt[:nu], ws.u[:nu])
		for i := 0; i < nu; i++ {
			ws.p[i] = 0
		}

		pFree := ws.pFree[:nf]
		violator := -1

		if nf > 0 {
			if err := s.solver.Solve(nc, nf, aFree.Data, ws.d[:nc], pFree); err != nil {
				return imax + 1, false, fmt.Errorf("least squares solve failed: %v", err)
			}

			for k, i := range free {
				ws.p[i] = pFree[k]
				ws.uOpt[i] += pFree[k]
				if violator < 0 && (ws.uOpt[i] > ws.umax[i] || ws.uOpt[i] < ws.umin[i]) {
					violator = i
				}
			}
		}

		if violator < 0 {
			copy(ws.u[:nu], ws.uOpt[:nu])
			ws.residual(aFree, pFree, 1.0)

			released := ws.multipliers(nu, nc, s.tol)
			s.trace(iter, aFree, free, pFree, 1.0, -1, released, nc)

			if released == 0 {
				return iter, true, nil
			}

			for i := 0; i < nu; i++ {
				if ws.w[i] != alloc.Free && ws.lambda[i] < -s.tol {
					ws.w[i] = alloc.Free
					ws.free.add(i)
				}
			}

			continue
		}

		alpha, blocking := ws.scale(free, violator)

		for i := 0; i < nu; i++ {
			ws.u[i] = clamp(ws.u[i]+alpha*ws.p[i], ws.umin[i], ws.umax[i])
		}
		ws.residual(aFree, pFree, alpha)

		s.trace(iter, aFree, free, pFree, alpha, blocking, 0, nc)

		if ws.p[blocking] > 0 {
			ws.w[blocking] = alloc.AtMax
		} else {
			ws.w[blocking] = alloc.AtMin
		}
		ws.free.remove(blocking)
	}

	return imax + 1, false, nil
}

// residual updates the residual d = d - alpha*A_free*p_free.
func (ws *workspace) residual(aFree matrix.View, pFree []float64, alpha float64) {
	nc := aFree.Rows
	for k, pk := range pFree {
		col := aFree.Data[k*nc : k*nc+nc]
		step := alpha * pk
		for r, v := range col {
			ws.d[r] -= v * step
		}
	}
}

// multipliers computes Lagrange multipliers lambda = W*A'*d.
// It returns the number of multipliers below -tol.
func (ws *workspace) multipliers(nu, nc int, tol float64) int {
	negative := 0
	for j := 0; j < nu; j++ {
		l := 0.0
		for r := 0; r < nc; r++ {
			l += ws.a[r*MaxActuators+j] * ws.d[r]
		}
		l *= ws.w[j].Sign()
		ws.lambda[j] = l

		if l < -tol {
			negative++
		}
	}

	return negative
}

// scale finds the largest step scale which keeps free actuators within their bounds.
// It returns the scale and the index of the actuator which limits it; that is
// the violating actuator when rounding hides its ratio.
func (ws *workspace) scale(free []int, violator int) (float64, int) {
	alpha, blocking := 1.0, violator

	for _, i := range free {
		var r float64
		if ws.p[i] < 0 {
			r = (ws.umin[i] - ws.u[i]) / ws.p[i]
		} else {
			r = (ws.umax[i] - ws.u[i]) / ws.p[i]
		}

		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			r = 1.0
		}

		if r < alpha {
			alpha, blocking = r, i
		}
	}

	return alpha, blocking
}

func (s *WLS) trace(iter int, aFree matrix.View, free []int, pFree []float64, alpha float64, blocking, released, nc int) {
	if s.tracer == nil {
		return
	}

	s.tracer.Iter(alloc.Iteration{
		Iter:     iter,
		Free:     free,
		A:        aFree,
		D:        s.ws.d[:nc],
		P:        pFree,
		Alpha:    alpha,
		Blocking: blocking,
		Released: released,
	})
}

// Run allocates problem p and returns the result.
// It returns error if p is invalid or if the allocation fails.
func (s *WLS) Run(p *alloc.Problem) (alloc.Result, error) {
	if p == nil {
		return nil, fmt.Errorf("invalid problem: %v", p)
	}

	nu, _ := p.Dims()
	if nu <= 0 {
		return nil, fmt.Errorf("invalid number of actuators: %d", nu)
	}

	u := &mat.VecDense{}
	w := make([]alloc.State, nu)

	iter, err := s.Allocate(u, w, p)
	if err != nil {
		return nil, err
	}

	imax := p.MaxIter
	if imax == 0 {
		imax = DefaultMaxIter
	}

	return result.NewBase(u, w, iter, imax)
}
