package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestStateSign(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		s    State
		sign float64
		str  string
	}{
		{s: Free, sign: 0.0, str: "free"},
		{s: AtMin, sign: -1.0, str: "min"},
		{s: AtMax, sign: 1.0, str: "max"},
		{s: State(5), sign: 0.0, str: "unknown"},
	} {
		assert.Equal(test.sign, test.s.Sign())
		assert.Equal(test.str, test.s.String())
	}
}

func TestProblemDims(t *testing.T) {
	assert := assert.New(t)

	p := &Problem{}
	nu, nv := p.Dims()
	assert.Equal(0, nu)
	assert.Equal(0, nv)

	p.B = mat.NewDense(4, 6, nil)
	nu, nv = p.Dims()
	assert.Equal(6, nu)
	assert.Equal(4, nv)
}
