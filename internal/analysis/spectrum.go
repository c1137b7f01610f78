package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of each non-negative frequency of
// series after removing its mean.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(len(series)).Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-constant component of series. Zero means no oscillation was found.
func DominantPeriod(series []float64, dt float64) float64 {
	ps := PowerSpectrum(series)
	best, bestPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestPower {
			best, bestPower = i, ps[i]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(len(series)) * dt / float64(best)
}
