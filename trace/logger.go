package trace

import (
	"fmt"

	alloc "github.com/milosgajdos/go-alloc"
	"go.uber.org/zap"
)

// Logger logs allocation through zap logger.
// Iterations are logged at debug level; terminal state is logged
// at debug level unless the iteration budget was exhausted.
type Logger struct {
	// l is zap logger
	l *zap.Logger
}

// NewLogger creates new Logger and returns it.
// It returns error if l is nil.
func NewLogger(l *zap.Logger) (*Logger, error) {
	if l == nil {
		return nil, fmt.Errorf("invalid logger: %v", l)
	}

	return &Logger{l: l.Named("wls")}, nil
}

// Iter logs allocation iteration.
func (l *Logger) Iter(it alloc.Iteration) {
	if ce := l.l.Check(zap.DebugLevel, "allocation iteration"); ce != nil {
		ce.Write(
			zap.Int("iter", it.Iter),
			zap.Ints("free", it.Free),
			zap.Float64s("step", it.P),
			zap.Float64s("residual", it.D),
			zap.Float64("alpha", it.Alpha),
			zap.Int("blocking", it.Blocking),
			zap.Int("released", it.Released),
		)
	}
}

// Done logs terminal allocation state.
func (l *Logger) Done(f alloc.Final) {
	level, msg := zap.DebugLevel, "allocation converged"
	if !f.Converged {
		level, msg = zap.WarnLevel, "allocation iteration budget exhausted"
	}

	if ce := l.l.Check(level, msg); ce != nil {
		ce.Write(
			zap.Int("iter", f.Iter),
			zap.Float64s("command", f.U),
			zap.Float64s("lambda", f.Lambda),
			zap.String("working_set", fmt.Sprint(f.W)),
		)
	}
}
