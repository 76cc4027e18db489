// Package trace provides allocation tracers.
// Tracers only observe allocation: they must not retain the slices
// of the events they receive as those alias allocator buffers.
package trace

import (
	"fmt"
	"io"

	alloc "github.com/milosgajdos/go-alloc"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Printer prints allocation iterations in human readable form
type Printer struct {
	// w is output writer
	w io.Writer
}

// NewPrinter creates new Printer which writes to w and returns it.
// It returns error if w is nil.
func NewPrinter(w io.Writer) (*Printer, error) {
	if w == nil {
		return nil, fmt.Errorf("invalid writer: %v", w)
	}

	return &Printer{w: w}, nil
}

// Iter prints allocation iteration.
func (p *Printer) Iter(it alloc.Iteration) {
	fmt.Fprintf(p.w, "Iteration %d:\n", it.Iter)
	fmt.Fprintf(p.w, "Free=%v\n", it.Free)

	if len(it.Free) > 0 {
		fmt.Fprintf(p.w, "A=\n%v\n", matrix.Format(it.A))
		fmt.Fprintf(p.w, "P=\n%v\n", matrix.Format(mat.NewVecDense(len(it.P), it.P)))
	}

	if len(it.D) > 0 {
		fmt.Fprintf(p.w, "D=\n%v\n", matrix.Format(mat.NewVecDense(len(it.D), it.D)))
	}

	if it.Blocking >= 0 {
		fmt.Fprintf(p.w, "Alpha=%g Blocking=%d\n", it.Alpha, it.Blocking)
		return
	}

	fmt.Fprintf(p.w, "Alpha=%g Released=%d\n", it.Alpha, it.Released)
}

// Done prints terminal allocation state.
func (p *Printer) Done(f alloc.Final) {
	fmt.Fprintf(p.w, "Done after %d iterations, converged: %t\n", f.Iter, f.Converged)
	fmt.Fprintf(p.w, "U=%v\n", f.U)
	fmt.Fprintf(p.w, "Lambda=%v\n", f.Lambda)
	fmt.Fprintf(p.w, "W=%v\n", f.W)
}
