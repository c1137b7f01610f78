package metrics

import (
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

// WallContacts counts wall bounces over the run.
type WallContacts struct {
	total int
}

func NewWallContacts() *WallContacts { return &WallContacts{} }

func (w *WallContacts) Name() string { return "wall_contacts" }

func (w *WallContacts) Observe(sys *particles.System, s sim.Sample) {
	w.total += s.Stats.Bounces
}

func (w *WallContacts) Value() float64 { return float64(w.total) }
func (w *WallContacts) Reset()         { w.total = 0 }

// InteractionRate is the mean number of repulsion hits per particle per
// frame.
type InteractionRate struct {
	hits    int
	weights int
}

func NewInteractionRate() *InteractionRate { return &InteractionRate{} }

func (r *InteractionRate) Name() string { return "interaction_rate" }

func (r *InteractionRate) Observe(sys *particles.System, s sim.Sample) {
	r.hits += s.Stats.Repulsion.Hits
	r.weights += sys.Len()
}

func (r *InteractionRate) Value() float64 {
	if r.weights == 0 {
		return 0
	}
	return float64(r.hits) / float64(r.weights)
}

func (r *InteractionRate) Reset() {
	r.hits = 0
	r.weights = 0
}

// CandidateEfficiency is the share of grid candidates that passed the
// exact distance check.
type CandidateEfficiency struct {
	candidates int
	hits       int
}

func NewCandidateEfficiency() *CandidateEfficiency { return &CandidateEfficiency{} }

func (c *CandidateEfficiency) Name() string { return "candidate_efficiency" }

func (c *CandidateEfficiency) Observe(sys *particles.System, s sim.Sample) {
	c.candidates += s.Stats.Repulsion.Candidates
	c.hits += s.Stats.Repulsion.Hits
}

func (c *CandidateEfficiency) Value() float64 {
	if c.candidates == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.candidates)
}

func (c *CandidateEfficiency) Reset() {
	c.candidates = 0
	c.hits = 0
}
