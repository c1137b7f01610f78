package particles

import (
	"errors"
	"fmt"
)

// Configuration errors returned by NewGrid and NewSystem.
var (
	// ErrConfig is the parent of every configuration error.
	ErrConfig = errors.New("particles: invalid configuration")

	// ErrInvalidDomain indicates a non-positive or non-finite domain size.
	ErrInvalidDomain = fmt.Errorf("%w: domain size must be positive", ErrConfig)

	// ErrInvalidBinPower indicates a bin power outside [0, MaxBinPower].
	ErrInvalidBinPower = fmt.Errorf("%w: bin power out of range", ErrConfig)

	// ErrTooManyBins indicates a bin power too small for the domain.
	ErrTooManyBins = fmt.Errorf("%w: bin count exceeds limit", ErrConfig)
)

// ConfigError carries the offending field and value.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v (%s=%g)", e.Wrapped, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
