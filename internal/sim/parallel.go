package sim

import (
	"context"
	"sync"

	"github.com/san-kum/binsim/internal/particles"
)

// BuildFunc creates a populated system for one seed.
type BuildFunc func(seed int64) (*particles.System, error)

// Ensemble runs independent systems, one per seed, concurrently. Each
// system is stepped by a single goroutine.
type Ensemble struct {
	base      *Simulator
	build     BuildFunc
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble runs numRuns systems seeded from seedStart. metrics is
// called once per run so stateful metrics are never shared.
func NewEnsemble(s *Simulator, build BuildFunc, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sys, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New(e.base.log.With("seed", cfgCopy.Seed))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, sys, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanMetrics averages each named metric over results.
func MeanMetrics(results []*Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		for name, v := range r.Metrics {
			sums[name] += v
			counts[name]++
		}
	}
	for name := range sums {
		sums[name] /= float64(counts[name])
	}
	return sums
}
