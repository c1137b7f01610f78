// Package analysis summarises grids, particle populations and telemetry
// series.
//
//   - [Occupancy]: how evenly particles spread over the bins
//   - [Speeds] and [SpeedHistogram]: the velocity distribution
//   - [SuggestBinPower] and [CandidateRatio]: sizing the grid for a radius
//   - [DominantPeriod]: the strongest oscillation in a metric series
//
// # Sizing the grid
//
// A bin edge at least as large as the interaction radius keeps every query
// inside a 3x3 block of bins:
//
//	power := analysis.SuggestBinPower(cfg.Forces.Neighborhood)
package analysis
