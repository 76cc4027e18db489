package sim

import (
	"fmt"

	alloc "github.com/milosgajdos/go-alloc"
	"gonum.org/v1/gonum/mat"
)

// Sample is a single simulation cycle
type Sample struct {
	// T is sample time
	T float64
	// V is requested control objective
	V mat.Vector
	// U contains allocated actuator commands
	U mat.Vector
	// X contains actuator positions at the end of the cycle
	X mat.Vector
	// Y is control objective achieved at the end of the cycle
	Y mat.Vector
	// W is allocation working set
	W []alloc.State
	// Iter is the number of allocation iterations
	Iter int
}

// Config is simulation loop configuration
type Config struct {
	// Allocator allocates control objective every cycle
	Allocator alloc.Allocator
	// Actuators is discrete-time actuator model
	Actuators *Discrete
	// Problem provides effectiveness, bounds and weights; its objective is set every cycle
	Problem *alloc.Problem
	// Noise disturbs requested control objective; optional
	Noise alloc.Noise
	// Dt is sampling time
	Dt float64
	// Cold disables warm starting allocation from the previous cycle
	Cold bool
}

// Loop is closed-loop allocation simulation
type Loop struct {
	c Config
	// p is the problem allocated every cycle
	p alloc.Problem
	// x stores actuator positions
	x mat.Vector
	// u stores actuator commands
	u *mat.VecDense
	// w stores allocation working set
	w []alloc.State
	// t is simulation time
	t float64
}

// NewLoop creates new simulation loop and returns it.
// Actuators start at rest in the middle of their bounds.
// It returns error if the configuration is incomplete or inconsistent.
func NewLoop(c *Config) (*Loop, error) {
	if c == nil || c.Allocator == nil || c.Actuators == nil || c.Problem == nil {
		return nil, fmt.Errorf("invalid simulation config: %v", c)
	}

	if c.Dt <= 0 {
		return nil, fmt.Errorf("invalid sampling time: %v", c.Dt)
	}

	nu, nv := c.Problem.Dims()
	nx, na, ny := c.Actuators.SystemDims()
	if nx != nu || na != nu || ny != nv {
		return nil, fmt.Errorf("invalid actuator model dimensions: [%d x %d x %d]", nx, na, ny)
	}

	if c.Problem.Umin == nil || c.Problem.Umin.Len() != nu || c.Problem.Umax == nil || c.Problem.Umax.Len() != nu {
		return nil, fmt.Errorf("invalid bounds: %d actuators expected", nu)
	}

	if c.Noise != nil && len(c.Noise.Mean()) != nv {
		return nil, fmt.Errorf("invalid noise dimension: %d", len(c.Noise.Mean()))
	}

	l := &Loop{c: *c}
	if err := l.Reset(); err != nil {
		return nil, err
	}

	return l, nil
}

// Reset puts actuators back to rest and resets the noise.
// It returns error if the noise fails to reset.
func (l *Loop) Reset() error {
	nu, _ := l.c.Problem.Dims()

	x := mat.NewVecDense(nu, nil)
	x.AddVec(l.c.Problem.Umin, l.c.Problem.Umax)
	x.ScaleVec(0.5, x)

	l.x = x
	l.u = mat.VecDenseCopyOf(x)
	l.w = make([]alloc.State, nu)
	l.p = *l.c.Problem
	l.t = 0

	if l.c.Noise != nil {
		return l.c.Noise.Reset()
	}

	return nil
}

// Step runs a single simulation cycle which allocates control objective v.
// It returns error if allocation or actuator propagation fails.
func (l *Loop) Step(v mat.Vector) (*Sample, error) {
	_, nv := l.p.Dims()
	if v == nil || v.Len() != nv {
		return nil, fmt.Errorf("invalid objective vector: %d objectives expected", nv)
	}

	req := mat.VecDenseCopyOf(v)
	if l.c.Noise != nil {
		req.AddVec(req, l.c.Noise.Sample())
	}

	l.p.V = req
	l.p.U0, l.p.W0 = nil, nil
	if !l.c.Cold && l.t > 0 {
		l.p.U0, l.p.W0 = l.u, l.w
	}

	iter, err := l.c.Allocator.Allocate(l.u, l.w, &l.p)
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %v", err)
	}

	x, err := l.c.Actuators.Propagate(l.x, l.u, nil)
	if err != nil {
		return nil, fmt.Errorf("actuator propagation failed: %v", err)
	}
	l.x = x

	y, err := l.c.Actuators.Observe(x, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to observe objective: %v", err)
	}

	l.t += l.c.Dt

	return &Sample{
		T:    l.t,
		V:    req,
		U:    mat.VecDenseCopyOf(l.u),
		X:    x,
		Y:    y,
		W:    append([]alloc.State(nil), l.w...),
		Iter: iter,
	}, nil
}

// Run runs a simulation cycle for every objective in refs and returns the samples.
// It returns error if any of the cycles fails.
func (l *Loop) Run(refs []mat.Vector) ([]*Sample, error) {
	samples := make([]*Sample, 0, len(refs))

	for i, v := range refs {
		s, err := l.Step(v)
		if err != nil {
			return nil, fmt.Errorf("cycle %d failed: %v", i, err)
		}
		samples = append(samples, s)
	}

	return samples, nil
}
