package trace

import (
	"bytes"
	"os"
	"testing"

	alloc "github.com/milosgajdos/go-alloc"
	"github.com/milosgajdos/go-alloc/matrix"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	it    alloc.Iteration
	final alloc.Final
)

func setup() {
	it = alloc.Iteration{
		Iter:     2,
		Free:     []int{1, 0},
		A:        matrix.Packed(3, 2, []float64{1, 0, 1, 1, 1, 0}),
		D:        []float64{0.5, -1, -1},
		P:        []float64{0.25, 0.75},
		Alpha:    0.5,
		Blocking: 1,
	}

	final = alloc.Final{
		Iter:      3,
		Converged: true,
		U:         []float64{1, 0.8},
		Lambda:    []float64{0.6, 0},
		W:         []alloc.State{alloc.AtMax, alloc.Free},
	}
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestPrinter(t *testing.T) {
	assert := assert.New(t)

	p, err := NewPrinter(nil)
	assert.Nil(p)
	assert.Error(err)

	var buf bytes.Buffer
	p, err = NewPrinter(&buf)
	assert.NotNil(p)
	assert.NoError(err)

	p.Iter(it)
	out := buf.String()
	assert.Contains(out, "Iteration 2:")
	assert.Contains(out, "Free=[1 0]")
	assert.Contains(out, "A=")
	assert.Contains(out, "Alpha=0.5 Blocking=1")

	buf.Reset()
	empty := alloc.Iteration{Iter: 3, D: []float64{1}, Alpha: 1, Blocking: -1}
	p.Iter(empty)
	out = buf.String()
	assert.NotContains(out, "A=")
	assert.Contains(out, "Alpha=1 Released=0")

	buf.Reset()
	p.Done(final)
	out = buf.String()
	assert.Contains(out, "Done after 3 iterations, converged: true")
	assert.Contains(out, "W=[max free]")
}

func TestLogger(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLogger(nil)
	assert.Nil(l)
	assert.Error(err)

	core, logs := observer.New(zapcore.DebugLevel)
	l, err = NewLogger(zap.New(core))
	assert.NotNil(l)
	assert.NoError(err)

	l.Iter(it)
	l.Done(final)

	exhausted := final
	exhausted.Converged = false
	exhausted.Iter = 101
	l.Done(exhausted)

	entries := logs.AllUntimed()
	assert.Len(entries, 3)

	assert.Equal(zapcore.DebugLevel, entries[0].Level)
	assert.Equal("wls", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.EqualValues(2, fields["iter"])
	assert.EqualValues(1, fields["blocking"])
	assert.Equal(0.5, fields["alpha"])

	assert.Equal(zapcore.DebugLevel, entries[1].Level)
	assert.Equal("[max free]", entries[1].ContextMap()["working_set"])

	assert.Equal(zapcore.WarnLevel, entries[2].Level)
	assert.EqualValues(101, entries[2].ContextMap()["iter"])

	// debug events are dropped above debug level
	core, logs = observer.New(zapcore.InfoLevel)
	l, err = NewLogger(zap.New(core))
	assert.NoError(err)

	l.Iter(it)
	l.Done(final)
	assert.Equal(0, logs.Len())
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	r := NewRecorder()

	free := []int{0, 1}
	d := []float64{1, 2, 3}
	ev := alloc.Iteration{Iter: 1, Free: free, D: d, Alpha: 1, Blocking: -1}
	r.Iter(ev)

	u := []float64{0.5, 0.5}
	r.Done(alloc.Final{Iter: 1, Converged: true, U: u, Lambda: []float64{0, 0}, W: []alloc.State{alloc.Free, alloc.Free}})

	// recorded events do not alias caller buffers
	free[0] = 7
	d[0] = -1
	u[0] = 1

	assert.Len(r.Iters(), 1)
	assert.Equal([]int{0, 1}, r.Iters()[0].Free)
	assert.Equal([]float64{1, 2, 3}, r.Iters()[0].D)

	assert.Len(r.Finals(), 1)
	assert.Equal([]float64{0.5, 0.5}, r.Finals()[0].U)
	assert.True(r.Finals()[0].Converged)

	r.Reset()
	assert.Len(r.Iters(), 0)
	assert.Len(r.Finals(), 0)
}
