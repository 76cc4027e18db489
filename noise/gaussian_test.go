package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestNewGaussian(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		mean []float64
		cov  mat.Symmetric
		ok   bool
	}{
		{
			mean: []float64{2, 3},
			cov:  mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1}),
			ok:   true,
		},
		{
			mean: []float64{0, 0, 0},
			cov:  mat.NewDiagDense(3, []float64{0.1, 0.1, 0.2}),
			ok:   true,
		},
		{
			mean: []float64{2, 3, 4},
			cov:  mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1}),
			ok:   false,
		},
		{
			mean: []float64{2, 3},
			cov:  mat.NewSymDense(2, []float64{1, 2, 2, 1}),
			ok:   false,
		},
		{
			mean: []float64{2, 3},
			cov:  nil,
			ok:   false,
		},
	} {
		g, err := NewGaussian(test.mean, test.cov, 1)
		if test.ok {
			assert.NotNil(g)
			assert.NoError(err)
			continue
		}
		assert.Nil(g)
		assert.Error(err)
	}
}

func TestGaussianMeanCov(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, 1)
	assert.NotNil(g)
	assert.NoError(err)

	gCov := g.Cov()
	assert.True(mat.Equal(cov, gCov))

	gMean := g.Mean()
	assert.EqualValues(mean, gMean)

	// mean is copied
	gMean[0] = 100
	assert.EqualValues(mean, g.Mean())
}

func TestGaussianSample(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, -3}
	cov := mat.NewSymDense(2, []float64{0.5, 0.1, 0.1, 0.5})

	g, err := NewGaussian(mean, cov, 42)
	assert.NoError(err)

	n := 5000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s := g.Sample()
		assert.Equal(len(mean), s.Len())
		x[i], y[i] = s.AtVec(0), s.AtVec(1)
	}

	// samples are centered around the mean
	assert.InDelta(mean[0], stat.Mean(x, nil), 0.05)
	assert.InDelta(mean[1], stat.Mean(y, nil), 0.05)
}

func TestGaussianReset(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, 7)
	assert.NotNil(g)
	assert.NoError(err)

	sample1 := g.Sample()
	sample2 := g.Sample()
	assert.NotEqual(sample1, sample2)

	err = g.Reset()
	assert.NoError(err)

	// the sequence starts over
	assert.Equal(sample1, g.Sample())
	assert.Equal(sample2, g.Sample())
}

func TestGaussianString(t *testing.T) {
	assert := assert.New(t)

	str := `Gaussian{
Mean=[2 3]
Cov=⎡  1  0.1⎤
    ⎣0.1    1⎦
}`
	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, 1)
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(str, g.String())
}
