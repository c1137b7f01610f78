package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/binsim/internal/particles"
)

func TestOccupancy(t *testing.T) {
	g, err := particles.NewGrid(64, 64, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 2x2 bins holding 3, 1, 0, 0
	g.Insert(0, 1, 1)
	g.Insert(1, 2, 2)
	g.Insert(2, 3, 3)
	g.Insert(3, 40, 1)

	s := Occupancy(g)
	if s.Bins != 4 || s.Empty != 2 {
		t.Errorf("expected 4 bins with 2 empty, got %+v", s)
	}
	if s.Mean != 1 {
		t.Errorf("expected mean 1, got %f", s.Mean)
	}
	if s.Max != 3 {
		t.Errorf("expected max 3, got %f", s.Max)
	}
	if s.P95 != 3 {
		t.Errorf("expected p95 3, got %f", s.P95)
	}
	if s.EmptyFraction() != 0.5 {
		t.Errorf("expected empty fraction 0.5, got %f", s.EmptyFraction())
	}
}

func TestSpeeds(t *testing.T) {
	ps := []particles.Particle{
		particles.NewParticle(0, 0, 3, 4),
		particles.NewParticle(0, 0, 0, 1),
		particles.NewParticle(0, 0, 0, 0),
	}
	s := Speeds(ps)
	if s.Mean != 2 {
		t.Errorf("expected mean 2, got %f", s.Mean)
	}
	if s.Median != 1 {
		t.Errorf("expected median 1, got %f", s.Median)
	}
	if s.Max != 5 {
		t.Errorf("expected max 5, got %f", s.Max)
	}
	if (Speeds(nil) != SpeedSummary{}) {
		t.Error("expected zero summary for no particles")
	}
}

func TestSpeedHistogram(t *testing.T) {
	ps := []particles.Particle{
		particles.NewParticle(0, 0, 0, 0),
		particles.NewParticle(0, 0, 1, 0),
		particles.NewParticle(0, 0, 9, 0),
		particles.NewParticle(0, 0, 10, 0),
	}
	div, counts, dropped := SpeedHistogram(ps, 2)
	if dropped != 0 {
		t.Errorf("expected nothing dropped, got %d", dropped)
	}
	if len(div) != 3 || len(counts) != 2 {
		t.Fatalf("expected 3 dividers and 2 counts, got %d and %d", len(div), len(counts))
	}
	if counts[0] != 2 || counts[1] != 2 {
		t.Errorf("expected [2 2], got %v", counts)
	}

	if div, counts, _ := SpeedHistogram(nil, 4); div != nil || counts != nil {
		t.Error("expected nil histogram for no particles")
	}
}

func TestSpeedsNonFinite(t *testing.T) {
	ps := []particles.Particle{
		particles.NewParticle(0, 0, 1, 0),
		particles.NewParticle(0, 0, math.NaN(), 0),
		particles.NewParticle(0, 0, math.Inf(1), 0),
	}
	s := Speeds(ps)
	if s.Dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", s.Dropped)
	}
	if s.Mean != 1 || s.Median != 1 || s.Max != 1 {
		t.Errorf("expected summary of the finite speed only, got %+v", s)
	}

	div, counts, dropped := SpeedHistogram(ps, 3)
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
	if len(div) != 4 || len(counts) != 3 {
		t.Fatalf("expected 4 dividers and 3 counts, got %d and %d", len(div), len(counts))
	}
	if counts[0]+counts[1]+counts[2] != 1 {
		t.Errorf("expected one counted speed, got %v", counts)
	}

	bad := ps[1:]
	if div, counts, dropped := SpeedHistogram(bad, 3); div != nil || counts != nil || dropped != 2 {
		t.Errorf("expected empty histogram with 2 dropped, got %v %v %d", div, counts, dropped)
	}
	if s := Speeds(bad); s.Dropped != 2 || s.Mean != 0 {
		t.Errorf("expected zero summary with 2 dropped, got %+v", s)
	}
}

func TestSuggestBinPower(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{32, 5},
		{33, 6},
		{20, 5},
		{1, 0},
		{0, 0},
		{-4, 0},
		{1e9, particles.MaxBinPower},
	}
	for _, tt := range tests {
		if got := SuggestBinPower(tt.radius); got != tt.want {
			t.Errorf("SuggestBinPower(%g) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestCandidateRatio(t *testing.T) {
	st := particles.StepStats{Repulsion: particles.Interaction{Candidates: 400}}
	if got := CandidateRatio(st, 20); got != 1 {
		t.Errorf("expected ratio 1, got %f", got)
	}
	if got := CandidateRatio(st, 0); got != 0 {
		t.Errorf("expected 0 for empty system, got %f", got)
	}
}

func TestDominantPeriod(t *testing.T) {
	const n, dt = 256, 0.01
	series := make([]float64, n)
	for i := range series {
		// eight full cycles over the window
		series[i] = 5 + math.Sin(2*math.Pi*8*float64(i)/n)
	}
	want := n * dt / 8
	if got := DominantPeriod(series, dt); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected period %f, got %f", want, got)
	}

	flat := make([]float64, 64)
	if got := DominantPeriod(flat, dt); got != 0 {
		t.Errorf("expected 0 for a flat series, got %f", got)
	}
}
