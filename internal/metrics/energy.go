package metrics

import (
	"math"

	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

// KineticEnergy is the mean over frames of the total kinetic energy,
// unit mass per particle.
type KineticEnergy struct {
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (e *KineticEnergy) Name() string { return "kinetic_energy" }

func (e *KineticEnergy) Observe(sys *particles.System, s sim.Sample) {
	e.total += s.KineticEnergy
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDecay is the relative change of kinetic energy between the first
// and the latest frame. Negative values mean the system is settling.
type EnergyDecay struct {
	initial float64
	current float64
	samples int
}

func NewEnergyDecay() *EnergyDecay { return &EnergyDecay{} }

func (e *EnergyDecay) Name() string { return "energy_decay" }

func (e *EnergyDecay) Observe(sys *particles.System, s sim.Sample) {
	if e.samples == 0 {
		e.initial = s.KineticEnergy
	}
	e.current = s.KineticEnergy
	e.samples++
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return (e.current - e.initial) / math.Abs(e.initial)
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
