// Package metrics implements sim.Metric over per-frame samples.
package metrics

import "github.com/san-kum/binsim/internal/sim"

// Default returns a fresh set of the metrics reported by the CLI.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDecay(),
		NewMeanSpeed(),
		NewPeakOccupancy(),
		NewWallContacts(),
		NewInteractionRate(),
		NewCandidateEfficiency(),
	}
}
