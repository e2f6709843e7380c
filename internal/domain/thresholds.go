package domain

// PercentileThresholds holds the quantity distribution cut-offs for one
// queried tick slice. Computed once per invocation and embedded in the
// imposter payload; never persisted standalone.
//
// Invariant: P99 >= P95 >= Median for any non-degenerate input.
type PercentileThresholds struct {
	P95         float64 `json:"p95"`
	P99         float64 `json:"p99"`
	Median      float64 `json:"median"`
	Mean        float64 `json:"mean"`
	SampleCount int     `json:"sample_count"`

	// Reliable is false when the sample is too small for the percentiles
	// to be statistically meaningful. The thresholds are still computed;
	// callers decide whether to surface a low-confidence indicator.
	Reliable bool `json:"reliable"`
}
