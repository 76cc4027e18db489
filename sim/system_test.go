package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewContinuous(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{-1, 0, 0, -2})
	B := mat.NewDense(2, 1, []float64{1, 1})
	C := mat.NewDense(1, 2, []float64{1, 0})
	D := mat.NewDense(1, 1, []float64{0})

	for _, test := range []struct {
		A, B, C, D *mat.Dense
		ok         bool
	}{
		{A: A, B: B, C: C, D: D, ok: true},
		{A: A, ok: true},
		{A: nil, B: B, C: C, D: D, ok: false},
		{A: mat.NewDense(2, 3, nil), ok: false},
		{A: A, B: mat.NewDense(3, 1, nil), ok: false},
		{A: A, B: B, C: mat.NewDense(1, 3, nil), ok: false},
		{A: A, B: B, C: C, D: mat.NewDense(2, 2, nil), ok: false},
		{A: A, D: D, ok: false},
	} {
		c, err := NewContinuous(test.A, test.B, test.C, test.D)
		if test.ok {
			assert.NotNil(c)
			assert.NoError(err)
		} else {
			assert.Nil(c)
			assert.Error(err)
		}

		d, err := NewDiscrete(test.A, test.B, test.C, test.D)
		if test.ok {
			assert.NotNil(d)
			assert.NoError(err)
		} else {
			assert.Nil(d)
			assert.Error(err)
		}
	}
}

func TestNewActuators(t *testing.T) {
	assert := assert.New(t)

	eff := mat.NewDense(1, 2, []float64{1, 1})

	a, err := NewActuators([]float64{0.1, 0.2}, eff)
	assert.NotNil(a)
	assert.NoError(err)

	nx, nu, ny := a.SystemDims()
	assert.Equal(2, nx)
	assert.Equal(2, nu)
	assert.Equal(1, ny)
	assert.Equal(-10.0, a.A.At(0, 0))
	assert.Equal(5.0, a.B.At(1, 1))

	for _, test := range []struct {
		tau []float64
		eff mat.Matrix
	}{
		{tau: nil, eff: eff},
		{tau: []float64{0.1, 0.2}, eff: nil},
		{tau: []float64{0.1}, eff: eff},
		{tau: []float64{0.1, 0}, eff: eff},
	} {
		a, err := NewActuators(test.tau, test.eff)
		assert.Nil(a)
		assert.Error(err)
	}
}

func TestToDiscrete(t *testing.T) {
	assert := assert.New(t)

	eff := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a, err := NewActuators([]float64{0.1, 0.5}, eff)
	assert.NoError(err)

	Ts := 0.01
	d, err := a.ToDiscrete(Ts)
	assert.NotNil(d)
	assert.NoError(err)

	// first-order lag: Ad = exp(-Ts/tau), Bd = 1 - exp(-Ts/tau)
	for i, tau := range []float64{0.1, 0.5} {
		assert.InDelta(math.Exp(-Ts/tau), d.A.At(i, i), 1e-12)
		assert.InDelta(1-math.Exp(-Ts/tau), d.B.At(i, i), 1e-12)
	}
	assert.Equal(0.0, d.A.At(0, 1))

	// continuous model is left untouched
	assert.Equal(-10.0, a.A.At(0, 0))

	// steady state output of the lag is the commanded objective
	gain, err := d.DCGain()
	assert.NoError(err)
	assert.True(mat.EqualApprox(eff, gain, 1e-9))

	d, err = a.ToDiscrete(0)
	assert.Nil(d)
	assert.Error(err)

	// singular system matrix
	integ, err := NewContinuous(mat.NewDense(1, 1, []float64{0}), mat.NewDense(1, 1, []float64{1}), nil, nil)
	assert.NoError(err)
	d, err = integ.ToDiscrete(Ts)
	assert.NoError(err)
	assert.InDelta(1.0, d.A.At(0, 0), 1e-12)
	assert.InDelta(Ts, d.B.At(0, 0), 1e-12)

	gain, err = d.DCGain()
	assert.Nil(gain)
	assert.Error(err)
}

func TestPropagateObserve(t *testing.T) {
	assert := assert.New(t)

	eff := mat.NewDense(1, 2, []float64{1, 1})
	a, err := NewActuators([]float64{0.1, 0.1}, eff)
	assert.NoError(err)

	x := mat.NewVecDense(2, []float64{0, 0})
	u := mat.NewVecDense(2, []float64{1, 0.5})

	// Euler step: x + dt*(u - x)/tau
	xc, err := a.Propagate(x, u, nil, 0.01)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0.1, 0.05}, xc.(*mat.VecDense).RawVector().Data, 1e-12)

	d, err := a.ToDiscrete(0.01)
	assert.NoError(err)

	xd, err := d.Propagate(x, u, nil)
	assert.NoError(err)
	assert.InDelta(1-math.Exp(-0.1), xd.AtVec(0), 1e-12)

	y, err := d.Observe(xd, nil, nil)
	assert.NoError(err)
	assert.InDelta(xd.AtVec(0)+xd.AtVec(1), y.AtVec(0), 1e-12)

	wn := mat.NewVecDense(1, []float64{0.5})
	yn, err := d.Observe(xd, nil, wn)
	assert.NoError(err)
	assert.InDelta(y.AtVec(0)+0.5, yn.AtVec(0), 1e-12)

	for _, test := range []struct {
		x, u mat.Vector
	}{
		{x: nil, u: u},
		{x: mat.NewVecDense(3, nil), u: u},
		{x: x, u: mat.NewVecDense(3, nil)},
	} {
		v, err := a.Propagate(test.x, test.u, nil, 0.01)
		assert.Nil(v)
		assert.Error(err)

		v, err = d.Propagate(test.x, test.u, nil)
		assert.Nil(v)
		assert.Error(err)

		v, err = d.Observe(test.x, test.u, nil)
		assert.Nil(v)
		assert.Error(err)
	}
}
