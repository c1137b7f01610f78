// Package experiment turns a config into populated systems and runs them.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/layout"
	"github.com/san-kum/binsim/internal/metrics"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

type Experiment struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics func() []sim.Metric
}

// New validates cfg and returns an experiment reporting metrics.Default.
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, log: logger, metrics: metrics.Default}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Build creates the system for one seed: the padded domain populated by
// the configured layout inside the visible area.
func (e *Experiment) Build(seed int64) (*particles.System, error) {
	sys, err := e.cfg.NewSystem()
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	x, y, w, h := e.cfg.Domain.Visible()
	pts, err := layout.Generate(e.cfg.Population.Layout, e.cfg.Population.Count, layout.Rect{X: x, Y: y, W: w, H: h}, rng)
	if err != nil {
		return nil, err
	}
	layout.Populate(sys, pts, e.cfg.Population.MaxSpeed, rng)
	return sys, nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Frames:        e.cfg.Run.Frames,
		FrameDt:       e.cfg.Run.FrameDt,
		Forces:        e.cfg.Forces.Particles(),
		ValidateState: e.cfg.Run.ValidateState,
		LogEvery:      e.cfg.Run.LogEvery,
		Seed:          e.cfg.Population.Seed,
	}
}

func (e *Experiment) simulator() *sim.Simulator {
	s := sim.New(e.log)
	for _, m := range e.metrics() {
		s.AddMetric(m)
	}
	return s
}

// Run builds the system for the configured seed and steps it. The final
// system is returned alongside the result for snapshots.
func (e *Experiment) Run(ctx context.Context, observers ...sim.Observer) (*particles.System, *sim.Result, error) {
	seed := e.cfg.Population.Seed
	sys, err := e.Build(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("build seed %d: %w", seed, err)
	}
	s := e.simulator()
	for _, o := range observers {
		s.AddObserver(o)
	}
	result, err := s.Run(ctx, sys, e.SimConfig())
	return sys, result, err
}

// RunEnsemble runs n independent systems seeded from the configured seed.
func (e *Experiment) RunEnsemble(ctx context.Context, n int) ([]*sim.Result, error) {
	ens := sim.NewEnsemble(sim.New(e.log), e.Build, e.metrics, n, e.cfg.Population.Seed)
	return ens.Run(ctx, e.SimConfig())
}
