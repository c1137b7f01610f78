package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/binsim/internal/particles"
)

func TestEnsembleRun(t *testing.T) {
	build := func(seed int64) (*particles.System, error) {
		return testSystem(t, 40, seed), nil
	}
	metrics := func() []Metric { return []Metric{&testMetric{}} }

	e := NewEnsemble(New(quietLogger()), build, metrics, 4, 10)
	results, err := e.Run(context.Background(), testConfig(15))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.FramesRun != 15 {
			t.Errorf("run %d: expected 15 frames, got %d", i, r.FramesRun)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("run %d: missing metric", i)
		}
	}

	mean := MeanMetrics(results)
	var sum float64
	for _, r := range results {
		sum += r.Metrics["test"]
	}
	if diff := mean["test"] - sum/4; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected mean %f, got %f", sum/4, mean["test"])
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func(seed int64) (*particles.System, error) {
		if seed == 2 {
			return nil, boom
		}
		return testSystem(t, 5, seed), nil
	}

	e := NewEnsemble(New(quietLogger()), build, nil, 3, 0)
	if _, err := e.Run(context.Background(), testConfig(2)); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
