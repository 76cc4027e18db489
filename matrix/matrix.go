package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Layout is memory layout of a dense matrix
type Layout int

const (
	// RowMajor stores matrix rows contiguously
	RowMajor Layout = iota
	// ColMajor stores matrix columns contiguously
	ColMajor
)

// String implements the Stringer interface.
func (l Layout) String() string {
	if l == ColMajor {
		return "col-major"
	}
	return "row-major"
}

// View is a dense matrix view of a flat slice with explicit memory layout.
// Stride is the distance between consecutive rows (RowMajor) or columns (ColMajor).
type View struct {
	// Rows is the number of matrix rows
	Rows int
	// Cols is the number of matrix columns
	Cols int
	// Stride is the leading dimension
	Stride int
	// Layout is memory layout of Data
	Layout Layout
	// Data stores matrix elements
	Data []float64
}

// NewView creates new View and returns it.
// It returns error if either the dimensions are invalid or data is too short.
func NewView(rows, cols, stride int, l Layout, data []float64) (View, error) {
	if rows < 0 || cols < 0 {
		return View{}, fmt.Errorf("invalid view dimensions: [%d x %d]", rows, cols)
	}

	lead := cols
	if l == ColMajor {
		lead = rows
	}
	if stride < lead {
		return View{}, fmt.Errorf("invalid %v stride %d for [%d x %d] view", l, stride, rows, cols)
	}

	if rows > 0 && cols > 0 && len(data) < required(rows, cols, stride, l) {
		return View{}, fmt.Errorf("invalid data length %d for [%d x %d] view", len(data), rows, cols)
	}

	return View{Rows: rows, Cols: cols, Stride: stride, Layout: l, Data: data}, nil
}

// Packed returns ColMajor view of m x n matrix whose columns are stored back to back.
func Packed(m, n int, data []float64) View {
	return View{Rows: m, Cols: n, Stride: m, Layout: ColMajor, Data: data}
}

func required(rows, cols, stride int, l Layout) int {
	if l == ColMajor {
		return (cols-1)*stride + rows
	}
	return (rows-1)*stride + cols
}

func (v View) index(i, j int) int {
	if i < 0 || i >= v.Rows || j < 0 || j >= v.Cols {
		panic(mat.ErrIndexOutOfRange)
	}
	if v.Layout == ColMajor {
		return j*v.Stride + i
	}
	return i*v.Stride + j
}

// Dims returns view dimensions.
func (v View) Dims() (r, c int) {
	return v.Rows, v.Cols
}

// At returns the element at row i and column j.
func (v View) At(i, j int) float64 {
	return v.Data[v.index(i, j)]
}

// Set sets the element at row i and column j to x.
func (v View) Set(i, j int, x float64) {
	v.Data[v.index(i, j)] = x
}

// T returns the transpose of the view.
func (v View) T() mat.Matrix {
	return mat.Transpose{Matrix: v}
}

// Convert copies src into dst, converting between memory layouts.
// It returns error if the views have different dimensions.
func Convert(dst, src View) error {
	if dst.Rows != src.Rows || dst.Cols != src.Cols {
		return fmt.Errorf("invalid dimensions: [%d x %d] != [%d x %d]", dst.Rows, dst.Cols, src.Rows, src.Cols)
	}

	for j := 0; j < src.Cols; j++ {
		for i := 0; i < src.Rows; i++ {
			dst.Data[dst.index(i, j)] = src.Data[src.index(i, j)]
		}
	}

	return nil
}

// SelectCols copies columns cols of src into consecutive columns of dst.
// It returns error if dst does not have the same number of rows as src,
// or if it does not have exactly len(cols) columns.
func SelectCols(dst, src View, cols []int) error {
	if dst.Rows != src.Rows || dst.Cols != len(cols) {
		return fmt.Errorf("invalid dimensions: [%d x %d] for %d columns of [%d x %d]",
			dst.Rows, dst.Cols, len(cols), src.Rows, src.Cols)
	}

	for k, c := range cols {
		for i := 0; i < src.Rows; i++ {
			dst.Data[dst.index(i, k)] = src.Data[src.index(i, c)]
		}
	}

	return nil
}
