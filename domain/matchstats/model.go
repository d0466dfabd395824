// Package matchstats persists per-match outcomes and aggregates them into
// the per-algorithm performance counters (histograms, totals) §5
// describes, repointed from the teacher's application-tracking analytics
// to the matching domain's own outcomes.
package matchstats

import "time"

// Outcome is a single recorded match_outcomes row.
type Outcome struct {
	JobPostingID  *string
	AlgorithmUsed string
	GlobalScore   int
	Confidence    float64
	FallbackUsed  bool
	RecordedAt    time.Time
}

// AlgorithmSummary aggregates outcomes for one algorithm over a window.
type AlgorithmSummary struct {
	Algorithm     string
	Count         int
	AvgScore      float64
	AvgConfidence float64
	FallbackRate  float64
}
