package rnd

import (
	"fmt"

	alloc "github.com/milosgajdos/go-alloc"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Problem draws random allocation problem with nu actuators and nv control objectives.
// Effectiveness entries are drawn from a standard normal distribution and the objective
// from a normal distribution with standard deviation scale, so large scale yields
// objectives which can not be realized within the bounds. Every actuator gets bounds
// which contain zero and weights are drawn uniformly from [0.5, 2].
// It returns error if either nu or nv is non-positive or scale is negative.
func Problem(nu, nv int, scale float64, src rand.Source) (*alloc.Problem, error) {
	if nu <= 0 || nv <= 0 {
		return nil, fmt.Errorf("invalid problem dimensions: [%d x %d]", nv, nu)
	}

	if scale < 0 {
		return nil, fmt.Errorf("invalid objective scale: %v", scale)
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}
	weight := distuv.Uniform{Min: 0.5, Max: 2, Src: src}

	B := mat.NewDense(nv, nu, nil)
	v := mat.NewVecDense(nv, nil)
	wv := mat.NewVecDense(nv, nil)
	for i := 0; i < nv; i++ {
		for j := 0; j < nu; j++ {
			B.Set(i, j, norm.Rand())
		}
		v.SetVec(i, scale*norm.Rand())
		wv.SetVec(i, weight.Rand())
	}

	umin := mat.NewVecDense(nu, nil)
	umax := mat.NewVecDense(nu, nil)
	wu := mat.NewVecDense(nu, nil)
	for j := 0; j < nu; j++ {
		umin.SetVec(j, -unit.Rand())
		umax.SetVec(j, unit.Rand())
		wu.SetVec(j, weight.Rand())
	}

	return &alloc.Problem{
		V:    v,
		Umin: umin,
		Umax: umax,
		B:    B,
		Wv:   wv,
		Wu:   wu,
	}, nil
}

// Command draws random actuator command within the bounds of problem p.
// It returns error if p has no bounds.
func Command(p *alloc.Problem, src rand.Source) (*mat.VecDense, error) {
	if p == nil || p.Umin == nil || p.Umax == nil || p.Umin.Len() != p.Umax.Len() {
		return nil, fmt.Errorf("invalid problem bounds")
	}

	u := mat.NewVecDense(p.Umin.Len(), nil)
	for i := 0; i < u.Len(); i++ {
		lo, hi := p.Umin.AtVec(i), p.Umax.AtVec(i)
		if lo == hi {
			u.SetVec(i, lo)
			continue
		}
		d := distuv.Uniform{Min: lo, Max: hi, Src: src}
		u.SetVec(i, d.Rand())
	}

	return u, nil
}
