package wls

import (
	"fmt"

	alloc "github.com/milosgajdos/go-alloc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// workspace stores all allocation buffers
type workspace struct {
	// a is augmented system matrix stored in row-major order with stride MaxActuators
	a [maxRows * MaxActuators]float64
	// aFree is reduced system matrix stored in column-major order
	aFree [maxRows * MaxActuators]float64
	// b is augmented system target
	b [maxRows]float64
	// d is augmented system residual
	d [maxRows]float64
	// u is the current actuator command
	u [MaxActuators]float64
	// uOpt is the candidate actuator command
	uOpt [MaxActuators]float64
	// umin is actuator lower bound
	umin [MaxActuators]float64
	// umax is actuator upper bound
	umax [MaxActuators]float64
	// p is the full step
	p [MaxActuators]float64
	// pFree is the step of free actuators
	pFree [MaxActuators]float64
	// lambda stores Lagrange multipliers
	lambda [MaxActuators]float64
	// w is working set
	w [MaxActuators]alloc.State
	// free tracks free actuators
	free freeSet
}

// check validates problem p and allocation outputs u and w.
// It returns the number of actuators and control objectives.
func check(u *mat.VecDense, w []alloc.State, p *alloc.Problem) (int, int, error) {
	if p == nil || p.B == nil {
		return 0, 0, fmt.Errorf("invalid problem: missing effectiveness matrix")
	}

	nu, nv := p.Dims()
	if nu <= 0 || nu > MaxActuators {
		return 0, 0, fmt.Errorf("invalid number of actuators: %d", nu)
	}

	if nv <= 0 || nv > MaxObjectives {
		return 0, 0, fmt.Errorf("invalid number of objectives: %d", nv)
	}

	if p.V == nil || p.V.Len() != nv {
		return 0, 0, fmt.Errorf("invalid objective vector: %d objectives expected", nv)
	}

	if p.Umin == nil || p.Umin.Len() != nu || p.Umax == nil || p.Umax.Len() != nu {
		return 0, 0, fmt.Errorf("invalid bounds: %d actuators expected", nu)
	}

	if err := checkLen("initial command", p.U0, nu); err != nil {
		return 0, 0, err
	}

	if err := checkLen("objective weights", p.Wv, nv); err != nil {
		return 0, 0, err
	}

	if err := checkLen("control weights", p.Wu, nu); err != nil {
		return 0, 0, err
	}

	if err := checkLen("preferred command", p.Up, nu); err != nil {
		return 0, 0, err
	}

	if p.W0 != nil {
		if len(p.W0) != nu {
			return 0, 0, fmt.Errorf("invalid initial working set length: %d != %d", len(p.W0), nu)
		}
		for i, s := range p.W0 {
			if s != alloc.Free && s != alloc.AtMin && s != alloc.AtMax {
				return 0, 0, fmt.Errorf("invalid working set state %d of actuator %d", s, i)
			}
		}
	}

	if p.MaxIter < 0 {
		return 0, 0, fmt.Errorf("invalid iteration budget: %d", p.MaxIter)
	}

	if u == nil || (!u.IsEmpty() && u.Len() != nu) {
		return 0, 0, fmt.Errorf("invalid command vector: %d actuators expected", nu)
	}

	if w != nil && len(w) != nu {
		return 0, 0, fmt.Errorf("invalid working set length: %d != %d", len(w), nu)
	}

	return nu, nv, nil
}

// checkLen checks optional vector v has length n.
func checkLen(name string, v mat.Vector, n int) error {
	if v != nil && v.Len() != n {
		return fmt.Errorf("invalid %s length: %d != %d", name, v.Len(), n)
	}
	return nil
}

// start initializes actuator command and working set.
// Without initial command the actuators start in the middle of their bounds,
// and without initial working set all actuators start free. The initial command
// is clamped to the bounds and bound actuators are placed on their bound.
func (ws *workspace) start(p *alloc.Problem, nu int) {
	for i := 0; i < nu; i++ {
		lo, hi := p.Umin.AtVec(i), p.Umax.AtVec(i)
		ws.umin[i], ws.umax[i] = lo, hi

		if p.U0 != nil {
			ws.u[i] = p.U0.AtVec(i)
		} else {
			ws.u[i] = (lo + hi) * 0.5
		}

		ws.w[i] = alloc.Free
		if p.W0 != nil {
			ws.w[i] = p.W0[i]
		}

		switch ws.w[i] {
		case alloc.AtMin:
			ws.u[i] = lo
		case alloc.AtMax:
			ws.u[i] = hi
		default:
			ws.u[i] = clamp(ws.u[i], lo, hi)
		}

		ws.lambda[i] = 0
	}

	ws.free.reset(ws.w[:nu])
}

// assemble builds the augmented system
//
//	A = [gamma*Wv*B; Wu]  b = [gamma*Wv*v; Wu*up]  d = b - A*u
//
// Missing weights and preferred command default to identity and zero.
func (ws *workspace) assemble(p *alloc.Problem, nu, nv int, gamma float64) {
	u := ws.u[:nu]

	for i := 0; i < nv; i++ {
		scale := gamma
		if p.Wv != nil {
			scale *= p.Wv.AtVec(i)
		}

		row := ws.a[i*MaxActuators : i*MaxActuators+nu]
		for j := range row {
			row[j] = scale * p.B.At(i, j)
		}
		ws.b[i] = scale * p.V.AtVec(i)
		ws.d[i] = ws.b[i] - floats.Dot(row, u)
	}

	for i := nv; i < nv+nu; i++ {
		j := i - nv

		row := ws.a[i*MaxActuators : i*MaxActuators+nu]
		for k := range row {
			row[k] = 0
		}

		wu := 1.0
		if p.Wu != nil {
			wu = p.Wu.AtVec(j)
		}
		row[j] = wu

		up := 0.0
		if p.Up != nil {
			up = p.Up.AtVec(j)
		}
		ws.b[i] = wu * up
		ws.d[i] = ws.b[i] - wu*u[j]
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
