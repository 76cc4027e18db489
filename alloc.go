package alloc

import (
	"github.com/milosgajdos/go-alloc/matrix"
	"gonum.org/v1/gonum/mat"
)

// State is an actuator working set state
type State int8

const (
	// Free actuator is not pinned to any of its bounds
	Free State = 0
	// AtMin actuator is pinned to its lower bound
	AtMin State = -1
	// AtMax actuator is pinned to its upper bound
	AtMax State = 1
)

// Sign returns the value Lagrange multipliers are scaled with.
func (s State) Sign() float64 {
	switch s {
	case AtMin:
		return -1.0
	case AtMax:
		return 1.0
	}
	return 0.0
}

// String implements the Stringer interface.
func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case AtMin:
		return "min"
	case AtMax:
		return "max"
	}
	return "unknown"
}

// Problem is a single control allocation problem
type Problem struct {
	// V is control objective
	V mat.Vector
	// Umin is actuator lower bound
	Umin mat.Vector
	// Umax is actuator upper bound
	Umax mat.Vector
	// B is control effectiveness matrix
	B mat.Matrix
	// U0 is initial actuator command; nil starts from the middle of the bounds
	U0 mat.Vector
	// W0 is initial working set; nil starts with all actuators free
	W0 []State
	// Wv weights control objectives; nil means identity
	Wv mat.Vector
	// Wu weights actuator commands; nil means identity
	Wu mat.Vector
	// Up is preferred actuator command; nil means zero
	Up mat.Vector
	// Gamma trades objective tracking off against the preferred command
	Gamma float64
	// MaxIter is iteration budget
	MaxIter int
}

// Dims returns the number of actuators and control objectives.
func (p *Problem) Dims() (nu, nv int) {
	if p.B == nil {
		return 0, 0
	}
	nv, nu = p.B.Dims()

	return nu, nv
}

// Allocator allocates control objective to actuator commands
type Allocator interface {
	// Allocate stores the actuator commands in u and the final working set in w.
	// It returns the number of iterations used.
	Allocate(u *mat.VecDense, w []State, p *Problem) (int, error)
}

// Solver solves linear least squares problems
type Solver interface {
	// Solve finds x minimizing ||A*x - b|| where A is m x n matrix
	// stored in a in column-major order. It must not modify a or b.
	Solve(m, n int, a, b, x []float64) error
}

// Iteration is a single allocation iteration
type Iteration struct {
	// Iter is iteration number
	Iter int
	// Free contains free actuator indices
	Free []int
	// A is the reduced system matrix
	A matrix.View
	// D is the augmented system residual after the step
	D []float64
	// P is the reduced system solution
	P []float64
	// Alpha scales the step; it is 1 for feasible steps
	Alpha float64
	// Blocking is the actuator pinned by a scaled step or -1
	Blocking int
	// Released is the number of actuators released from their bounds
	Released int
}

// Final is the terminal allocation state
type Final struct {
	// Problem is the allocation problem
	Problem *Problem
	// Iter is the number of iterations used
	Iter int
	// Converged is true if the solution was proven optimal
	Converged bool
	// U contains actuator commands
	U []float64
	// Lambda contains Lagrange multipliers
	Lambda []float64
	// W is the final working set
	W []State
}

// Tracer observes allocation
type Tracer interface {
	// Iter is called once per iteration
	Iter(Iteration)
	// Done is called when allocation terminates
	Done(Final)
}

// Result is allocation result
type Result interface {
	// Val returns actuator commands
	Val() mat.Vector
	// WorkingSet returns the final working set
	WorkingSet() []State
	// Iter returns the number of iterations used
	Iter() int
	// Converged returns true if the solution was proven optimal
	Converged() bool
}

// Noise is control objective disturbance
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}
