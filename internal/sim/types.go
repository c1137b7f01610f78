package sim

import (
	"log/slog"

	"github.com/san-kum/binsim/internal/particles"
)

type Metric interface {
	Name() string
	Observe(sys *particles.System, s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(sys *particles.System, s Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(sys *particles.System, s Sample)

func (f ObserverFunc) OnFrame(sys *particles.System, s Sample) { f(sys, s) }

type Config struct {
	Frames        int
	FrameDt       float64
	Forces        particles.Forces
	ValidateState bool
	LogEvery      int
	Seed          int64
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		FrameDt:       1.0 / 60,
		Forces:        particles.DefaultForces(),
		ValidateState: true,
		LogEvery:      100,
	}
}

// Sample is the telemetry of one frame, taken after the step.
type Sample struct {
	Frame         int
	Time          float64
	KineticEnergy float64
	MeanSpeed     float64
	MaxOccupancy  int
	Stats         particles.StepStats
}

func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.Float64("time", s.Time),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Int("max_occupancy", s.MaxOccupancy),
		slog.Int("candidates", s.Stats.Repulsion.Candidates),
		slog.Int("hits", s.Stats.Repulsion.Hits),
		slog.Int("bounces", s.Stats.Bounces),
	)
}

type Result struct {
	Samples   []Sample
	Metrics   map[string]float64
	FramesRun int
	Errors    []error
}

// Last returns the final sample, or a zero Sample when nothing ran.
func (r *Result) Last() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Measure summarises the current state of sys.
func Measure(sys *particles.System, frame int, t float64, st particles.StepStats) Sample {
	s := Sample{Frame: frame, Time: t, Stats: st, MaxOccupancy: sys.Grid().MaxOccupancy()}
	ps := sys.Particles()
	if len(ps) == 0 {
		return s
	}
	var ke, speed float64
	for i := range ps {
		p := &ps[i]
		ke += 0.5 * (p.XV*p.XV + p.YV*p.YV)
		speed += p.Speed()
	}
	s.KineticEnergy = ke
	s.MeanSpeed = speed / float64(len(ps))
	return s
}
