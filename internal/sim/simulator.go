package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/binsim/internal/particles"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

// New returns a simulator logging to logger, or to slog.Default when nil.
func New(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{log: logger}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps sys cfg.Frames times with a constant frame time. On
// cancellation the partial result is returned with ctx.Err(). An unstable
// particle stops the run and is recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, sys *particles.System, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info("run started",
		"particles", sys.Len(),
		"frames", cfg.Frames,
		"frame_dt", cfg.FrameDt,
		"bin_power", sys.Grid().BinPower(),
	)

	t := 0.0
	for frame := 0; frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			s.log.Warn("run canceled", "frame", frame)
			return result, ctx.Err()
		default:
		}

		st := sys.Step(cfg.Forces, cfg.FrameDt)
		t += cfg.FrameDt

		if cfg.ValidateState {
			if i := firstInvalid(sys); i >= 0 {
				err := &SimError{Frame: frame, Time: t, Particle: i, Wrapped: ErrUnstable}
				result.Errors = append(result.Errors, err)
				s.log.Error("run diverged", "err", err)
				break
			}
		}

		sample := Measure(sys, frame, t, st)
		result.Samples = append(result.Samples, sample)
		result.FramesRun++

		for _, m := range s.metrics {
			m.Observe(sys, sample)
		}
		for _, obs := range s.observers {
			obs.OnFrame(sys, sample)
		}

		if cfg.LogEvery > 0 && (frame+1)%cfg.LogEvery == 0 {
			s.log.Debug("progress", "sample", sample)
		}
	}

	s.collect(result)
	s.log.Info("run finished", "frames", result.FramesRun, "errors", len(result.Errors))
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if !(cfg.FrameDt >= 0) || math.IsInf(cfg.FrameDt, 0) {
		return fmt.Errorf("%w: frame dt must be finite and non-negative, got %f", ErrInvalidConfig, cfg.FrameDt)
	}
	return nil
}

func firstInvalid(sys *particles.System) int {
	for i := 0; i < sys.Len(); i++ {
		if !sys.At(i).IsValid() {
			return i
		}
	}
	return -1
}
