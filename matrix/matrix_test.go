package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewView(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}

	v, err := NewView(3, 2, 2, RowMajor, data)
	assert.NoError(err)
	assert.Equal(4.5, v.At(1, 0))

	v, err = NewView(3, 2, 3, ColMajor, data)
	assert.NoError(err)
	assert.Equal(3.4, v.At(1, 0))

	// negative dimensions
	_, err = NewView(-1, 2, 2, RowMajor, data)
	assert.Error(err)

	// stride shorter than row
	_, err = NewView(3, 2, 1, RowMajor, data)
	assert.Error(err)

	// data too short
	_, err = NewView(3, 3, 3, ColMajor, data)
	assert.Error(err)
}

func TestViewAtSet(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	m := mat.NewDense(3, 2, data)

	v, err := NewView(3, 2, 2, RowMajor, data)
	assert.NoError(err)
	assert.True(mat.Equal(m, v))
	assert.True(mat.Equal(m.T(), v.T()))

	v.Set(2, 1, -1.0)
	assert.Equal(-1.0, m.At(2, 1))

	assert.Panics(func() { v.At(3, 0) })
	assert.Panics(func() { v.Set(0, -1, 1.0) })
}

func TestConvert(t *testing.T) {
	assert := assert.New(t)

	rowMajor := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	colMajor := []float64{1, 4, 2, 5, 3, 6}

	src, err := NewView(2, 3, 3, RowMajor, rowMajor)
	assert.NoError(err)

	dst := Packed(2, 3, make([]float64, 6))
	assert.NoError(Convert(dst, src))
	assert.Equal(colMajor, dst.Data)
	assert.True(mat.Equal(src, dst))

	// round trip
	back, err := NewView(2, 3, 3, RowMajor, make([]float64, 6))
	assert.NoError(err)
	assert.NoError(Convert(back, dst))
	assert.Equal(rowMajor, back.Data)

	// mismatched dimensions
	assert.Error(Convert(Packed(3, 2, make([]float64, 6)), src))
}

func TestSelectCols(t *testing.T) {
	assert := assert.New(t)

	// 2 x 4 matrix stored with a wider stride
	data := []float64{
		1, 2, 3, 4, 0,
		5, 6, 7, 8, 0,
	}
	src, err := NewView(2, 4, 5, RowMajor, data)
	assert.NoError(err)

	dst := Packed(2, 2, make([]float64, 4))
	assert.NoError(SelectCols(dst, src, []int{3, 1}))
	assert.Equal([]float64{4, 8, 2, 6}, dst.Data)

	assert.Error(SelectCols(dst, src, []int{0}))
	assert.Error(SelectCols(Packed(3, 1, make([]float64, 3)), src, []int{0}))
}
