package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Continuous is a linear, continuous-time model of actuator dynamics
type Continuous struct {
	System
}

// NewContinuous creates a linear continuous-time model
//
//	dx/dt = A*x + B*u
//	y = C*x + D*u
//
// It returns error if A is nil or not square, or if the dimensions of the matrices do not match.
func NewContinuous(A, B, C, D *mat.Dense) (*Continuous, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}

	if r, c := A.Dims(); r != c {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", r, c)
	}

	sys := newSystem(A, B, C, D)
	if err := checkDims(sys); err != nil {
		return nil, err
	}

	return &Continuous{System: sys}, nil
}

// NewActuators creates a model of first-order actuator lag with time constants tau
// whose output is the control objective achieved through effectiveness matrix eff:
//
//	dx/dt = (u - x)/tau
//	y = eff*x
//
// It returns error if any time constant is non-positive or if eff has wrong number of columns.
func NewActuators(tau []float64, eff mat.Matrix) (*Continuous, error) {
	n := len(tau)
	if n == 0 {
		return nil, fmt.Errorf("invalid number of actuators: %d", n)
	}

	if eff == nil {
		return nil, fmt.Errorf("invalid effectiveness matrix: %v", eff)
	}

	if _, c := eff.Dims(); c != n {
		return nil, fmt.Errorf("invalid effectiveness matrix columns: %d != %d", c, n)
	}

	A := mat.NewDense(n, n, nil)
	B := mat.NewDense(n, n, nil)
	for i, t := range tau {
		if t <= 0 {
			return nil, fmt.Errorf("invalid time constant %v of actuator %d", t, i)
		}
		A.Set(i, i, -1/t)
		B.Set(i, i, 1/t)
	}

	return NewContinuous(A, B, mat.DenseCopyOf(eff), nil)
}

// ToDiscrete creates a discrete-time model from a continuous time model
// using Ts as the sampling time.
//
// The input is held constant over each sampling period (zero-order hold) and both
// discrete matrices are read off a single matrix exponential of the augmented system
//
//	exp([A B; 0 0]*Ts) = [Ad Bd; 0 I]
//
// which does not require A to be invertible.
func (ct *Continuous) ToDiscrete(Ts float64) (*Discrete, error) {
	if Ts <= 0 {
		return nil, fmt.Errorf("invalid sampling time: %v", Ts)
	}

	nx, nu, _ := ct.SystemDims()
	dsys := newSystem(ct.A, ct.B, ct.C, ct.D)

	aug := mat.NewDense(nx+nu, nx+nu, nil)
	aug.Slice(0, nx, 0, nx).(*mat.Dense).Scale(Ts, ct.A)
	if ct.B != nil {
		aug.Slice(0, nx, nx, nx+nu).(*mat.Dense).Scale(Ts, ct.B)
	}
	aug.Exp(aug)

	dsys.A.Copy(aug.Slice(0, nx, 0, nx))
	if dsys.B != nil {
		dsys.B.Copy(aug.Slice(0, nx, nx, nx+nu))
	}

	return &Discrete{System: dsys}, nil
}

// Propagate returns the next internal state of the system given its state x
// and an input vector u. It integrates dx/dt = A*x + B*u with Euler's method
// over timestep dt. wd is added to the derivative as process noise.
func (ct *Continuous) Propagate(x, u, wd mat.Vector, dt float64) (mat.Vector, error) {
	nx, nu, _ := ct.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(ct.A, x)
	if u != nil && ct.B != nil {
		outU := mat.NewVecDense(nx, nil)
		outU.MulVec(ct.B, u)

		out.AddVec(out, outU)
	}

	if wd != nil && wd.Len() == nx {
		out.AddVec(out, wd)
	}

	out.AddScaledVec(x, dt, out)

	return out, nil
}

func checkDims(s System) error {
	nx, _ := s.A.Dims()

	if s.B != nil {
		if r, _ := s.B.Dims(); r != nx {
			return fmt.Errorf("invalid input matrix rows: %d != %d", r, nx)
		}
	}

	if s.C != nil {
		if _, c := s.C.Dims(); c != nx {
			return fmt.Errorf("invalid output matrix columns: %d != %d", c, nx)
		}
	}

	if s.D != nil {
		if s.B == nil || s.C == nil {
			return fmt.Errorf("feedthrough matrix requires input and output matrices")
		}
		_, nu, ny := s.SystemDims()
		if r, c := s.D.Dims(); r != ny || c != nu {
			return fmt.Errorf("invalid feedthrough matrix dimensions: [%d x %d]", r, c)
		}
	}

	return nil
}
