package analysis

import (
	"math"

	"github.com/san-kum/binsim/internal/particles"
)

// SuggestBinPower returns the smallest power of two bin edge that is at
// least radius, capped at particles.MaxBinPower.
func SuggestBinPower(radius float64) int {
	if !(radius > 1) {
		return 0
	}
	p := int(math.Ceil(math.Log2(radius)))
	if p > particles.MaxBinPower {
		return particles.MaxBinPower
	}
	return p
}

// CandidateRatio compares grid work with a brute-force pass: candidates
// visited per particle divided by n. Values near 1 mean the grid saves
// nothing.
func CandidateRatio(st particles.StepStats, n int) float64 {
	if n == 0 {
		return 0
	}
	perParticle := float64(st.Repulsion.Candidates) / float64(n)
	return perParticle / float64(n)
}
