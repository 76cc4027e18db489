package trace

import alloc "github.com/milosgajdos/go-alloc"

// Recorder records copies of allocation events
type Recorder struct {
	iters  []alloc.Iteration
	finals []alloc.Final
}

// NewRecorder creates new Recorder and returns it.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Iter records allocation iteration.
func (r *Recorder) Iter(it alloc.Iteration) {
	it.Free = append([]int(nil), it.Free...)
	it.D = append([]float64(nil), it.D...)
	it.P = append([]float64(nil), it.P...)
	it.A.Data = append([]float64(nil), it.A.Data...)

	r.iters = append(r.iters, it)
}

// Done records terminal allocation state.
func (r *Recorder) Done(f alloc.Final) {
	f.U = append([]float64(nil), f.U...)
	f.Lambda = append([]float64(nil), f.Lambda...)
	f.W = append([]alloc.State(nil), f.W...)

	r.finals = append(r.finals, f)
}

// Iters returns recorded iterations.
func (r *Recorder) Iters() []alloc.Iteration {
	return r.iters
}

// Finals returns recorded terminal states.
func (r *Recorder) Finals() []alloc.Final {
	return r.finals
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.iters = nil
	r.finals = nil
}
