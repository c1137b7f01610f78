package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/binsim/internal/particles"
)

type OccupancySummary struct {
	Bins   int
	Empty  int
	Mean   float64
	StdDev float64
	P95    float64
	Max    float64
}

// Occupancy summarises the population of every bin of g.
func Occupancy(g *particles.Grid) OccupancySummary {
	counts := g.Occupancy(nil)
	s := OccupancySummary{Bins: len(counts)}
	if len(counts) == 0 {
		return s
	}

	xs := make([]float64, len(counts))
	for i, c := range counts {
		xs[i] = float64(c)
		if c == 0 {
			s.Empty++
		}
	}
	sort.Float64s(xs)

	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, xs, nil)
	s.Max = floats.Max(xs)
	return s
}

// EmptyFraction is the share of bins holding no particle.
func (s OccupancySummary) EmptyFraction() float64 {
	if s.Bins == 0 {
		return 0
	}
	return float64(s.Empty) / float64(s.Bins)
}
