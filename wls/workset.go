package wls

import alloc "github.com/milosgajdos/go-alloc"

// freeSet is an ordered set of free actuator indices
type freeSet struct {
	// index stores free actuator indices
	index [MaxActuators]int
	// lookup maps actuator index to its position in index or -1
	lookup [MaxActuators]int
	// n is the number of free actuators
	n int
	// version changes whenever the set is modified
	version int
}

// reset fills the set with all free actuators of working set w.
func (f *freeSet) reset(w []alloc.State) {
	f.n = 0
	for i := range f.lookup {
		f.lookup[i] = -1
	}

	for i, s := range w {
		if s == alloc.Free {
			f.add(i)
		}
	}
	f.version++
}

// add appends actuator i to the set unless it's already in it.
func (f *freeSet) add(i int) {
	if f.lookup[i] >= 0 {
		return
	}

	f.lookup[i] = f.n
	f.index[f.n] = i
	f.n++
	f.version++
}

// remove removes actuator i from the set.
// The last free actuator takes the place of the removed one.
func (f *freeSet) remove(i int) {
	k := f.lookup[i]
	if k < 0 {
		return
	}

	f.n--
	last := f.index[f.n]
	f.index[k] = last
	f.lookup[last] = k
	f.lookup[i] = -1
	f.version++
}

func (f *freeSet) contains(i int) bool {
	return f.lookup[i] >= 0
}

// indices returns free actuator indices.
// The returned slice is only valid until the set is modified.
func (f *freeSet) indices() []int {
	return f.index[:f.n]
}
