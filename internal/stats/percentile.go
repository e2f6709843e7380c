// Package stats computes quantity-distribution thresholds for outlier
// detection.
package stats

import (
	"errors"
	"sort"

	"tape-analytics/internal/domain"
)

// ErrInsufficientData is returned when thresholds are requested for an
// empty quantity sequence.
var ErrInsufficientData = errors.New("insufficient data: empty quantity sequence")

// MinReliableSampleSize is the sample count below which computed
// percentiles are statistically unreliable. Results for smaller samples
// are still returned, with Thresholds.Reliable unset.
const MinReliableSampleSize = 30

// ComputeThresholds calculates the P95/P99/median/mean of a quantity
// distribution using linear interpolation between bracketing sorted
// values at fractional rank p*(n-1).
func ComputeThresholds(quantities []float64) (domain.PercentileThresholds, error) {
	n := len(quantities)
	if n == 0 {
		return domain.PercentileThresholds{}, ErrInsufficientData
	}

	sorted := make([]float64, n)
	copy(sorted, quantities)
	sort.Float64s(sorted)

	sum := 0.0
	for _, q := range sorted {
		sum += q
	}

	return domain.PercentileThresholds{
		P95:         Percentile(sorted, 0.95),
		P99:         Percentile(sorted, 0.99),
		Median:      Percentile(sorted, 0.50),
		Mean:        sum / float64(n),
		SampleCount: n,
		Reliable:    n >= MinReliableSampleSize,
	}, nil
}

// Percentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.95 = 95th percentile).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	// Linear interpolation
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Rank returns the share of values in sorted strictly below q, as a
// percentage in [0, 100]. Used for display-only percentile ranks on
// findings.
func Rank(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	below := sort.SearchFloat64s(sorted, q)
	return float64(below) / float64(n) * 100
}
