package sim

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Discrete is a linear, discrete-time model of actuator dynamics
type Discrete struct {
	System
}

// NewDiscrete creates a linear discrete-time model
//
//	x[n+1] = A*x[n] + B*u[n]
//	y[n] = C*x[n] + D*u[n]
//
// It returns error if A is nil or not square, or if the dimensions of the matrices do not match.
func NewDiscrete(A, B, C, D *mat.Dense) (*Discrete, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}

	if r, c := A.Dims(); r != c {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", r, c)
	}

	sys := System{A: A, B: B, C: C, D: D}
	if err := checkDims(sys); err != nil {
		return nil, err
	}

	return &Discrete{System: sys}, nil
}

// Propagate returns the next internal state of the system given its state x
// and an input vector u. wd is added to the state as process noise.
func (ds *Discrete) Propagate(x, u, wd mat.Vector) (mat.Vector, error) {
	nx, nu, _ := ds.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(ds.A, x)
	if u != nil && ds.B != nil {
		outU := mat.NewVecDense(nx, nil)
		outU.MulVec(ds.B, u)

		out.AddVec(out, outU)
	}

	if wd != nil && wd.Len() == nx {
		out.AddVec(out, wd)
	}

	return out, nil
}

// DCGain returns steady-state gain C*inv(I-A)*B + D of the system.
// It returns error if the system has no input or output, or if it has a pole at 1.
func (ds *Discrete) DCGain() (*mat.Dense, error) {
	if ds.B == nil || ds.C == nil {
		return nil, fmt.Errorf("dc gain requires input and output matrices")
	}

	nx, nu, ny := ds.SystemDims()

	eye, err := matrix.NewDenseValIdentity(nx, 1.0)
	if err != nil {
		return nil, err
	}

	eye.Sub(eye, ds.A)

	xs := mat.NewDense(nx, nu, nil)
	if err := xs.Solve(eye, ds.B); err != nil {
		return nil, fmt.Errorf("failed to compute steady state: %v", err)
	}

	gain := mat.NewDense(ny, nu, nil)
	gain.Mul(ds.C, xs)

	if ds.D != nil {
		gain.Add(gain, ds.D)
	}

	return gain, nil
}
