package metrics

import (
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

// MeanSpeed reports the mean particle speed of the latest frame.
type MeanSpeed struct {
	last float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string                                { return "mean_speed" }
func (m *MeanSpeed) Observe(sys *particles.System, s sim.Sample) { m.last = s.MeanSpeed }
func (m *MeanSpeed) Value() float64                              { return m.last }
func (m *MeanSpeed) Reset()                                      { m.last = 0 }

// PeakOccupancy is the largest bin population seen over the run.
type PeakOccupancy struct {
	peak int
}

func NewPeakOccupancy() *PeakOccupancy { return &PeakOccupancy{} }

func (p *PeakOccupancy) Name() string { return "peak_occupancy" }

func (p *PeakOccupancy) Observe(sys *particles.System, s sim.Sample) {
	if s.MaxOccupancy > p.peak {
		p.peak = s.MaxOccupancy
	}
}

func (p *PeakOccupancy) Value() float64 { return float64(p.peak) }
func (p *PeakOccupancy) Reset()         { p.peak = 0 }
