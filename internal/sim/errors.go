package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnstable means a particle reached a NaN or infinite component.
	ErrUnstable = errors.New("sim: particle state diverged")

	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// SimError places an error at a frame and particle.
type SimError struct {
	Frame    int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) particle %d: %v", e.Frame, e.Time, e.Particle, e.Wrapped)
}

func (e *SimError) Unwrap() error { return e.Wrapped }
