package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/binsim/internal/particles"
)

// SpeedSummary describes the finite speeds only; Dropped counts the
// particles whose speed was NaN or infinite.
type SpeedSummary struct {
	Mean    float64
	StdDev  float64
	Median  float64
	Max     float64
	Dropped int
}

// finiteSpeeds returns the sorted finite speeds and how many were not.
func finiteSpeeds(ps []particles.Particle) (xs []float64, dropped int) {
	xs = make([]float64, 0, len(ps))
	for i := range ps {
		v := ps[i].Speed()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			dropped++
			continue
		}
		xs = append(xs, v)
	}
	sort.Float64s(xs)
	return xs, dropped
}

func Speeds(ps []particles.Particle) SpeedSummary {
	xs, dropped := finiteSpeeds(ps)
	s := SpeedSummary{Dropped: dropped}
	if len(xs) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	s.Max = floats.Max(xs)
	return s
}

// SpeedHistogram counts speeds into bins equal-width buckets from zero to
// just above the fastest finite particle. It returns the bucket dividers,
// the counts and the number of NaN or infinite speeds left out.
func SpeedHistogram(ps []particles.Particle, bins int) (dividers, counts []float64, dropped int) {
	xs, dropped := finiteSpeeds(ps)
	if bins < 1 || len(xs) == 0 {
		return nil, nil, dropped
	}
	hi := xs[len(xs)-1]*(1+1e-9) + 1e-9
	if math.IsInf(hi, 0) {
		// the fastest speed is near MaxFloat64
		hi = math.MaxFloat64
	}
	dividers = floats.Span(make([]float64, bins+1), 0, hi)
	counts = stat.Histogram(nil, dividers, xs, nil)
	return dividers, counts, dropped
}
