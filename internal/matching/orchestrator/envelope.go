package orchestrator

import (
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
)

// EnvelopeMeta is the §6.1 `meta` object.
type EnvelopeMeta struct {
	TotalOffers   int     `json:"total_offers"`
	Returned      int     `json:"returned"`
	AvgScore      float64 `json:"avg_score"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Envelope is the public response wire format, per §6.1 and reused
// verbatim as the §6.4 webhook `data` payload so a caller sees the same
// shape whether it polls synchronously or is notified asynchronously.
type Envelope struct {
	Status           string                                      `json:"status"`
	AlgorithmUsed    string                                      `json:"algorithm_used"`
	ExecutionTimeS   float64                                     `json:"execution_time_s"`
	Results          []canonical.MatchResult                     `json:"results"`
	Meta             EnvelopeMeta                                `json:"meta"`
	Errors           []string                                    `json:"errors,omitempty"`
	ComparisonDetail map[variants.Name][]canonical.MatchResult `json:"comparison_detail,omitempty"`
}

// ToEnvelope converts a Response into the §6.1 wire shape. totalOffers is
// the number of jobs the request considered, before limit/min_score
// filtering, so a caller can distinguish "only 2 of 50 passed the bar"
// from "I sent you 2 jobs total".
func (r Response) ToEnvelope(totalOffers int, elapsed time.Duration) Envelope {
	status := r.Status
	if status == "ok" {
		status = "success"
	}
	if status == "" {
		status = "error"
	}

	var errs []string
	if r.OriginalError != "" {
		errs = append(errs, r.OriginalError)
	}

	algorithm := r.Meta.ChosenAlgorithm
	if algorithm == "" {
		algorithm = "none"
	}

	if r.Results == nil {
		r.Results = []canonical.MatchResult{}
	}

	return Envelope{
		Status:           status,
		AlgorithmUsed:    algorithm,
		ExecutionTimeS:   elapsed.Seconds(),
		Results:          r.Results,
		Errors:           errs,
		ComparisonDetail: r.ComparisonDetail,
		Meta: EnvelopeMeta{
			TotalOffers:   totalOffers,
			Returned:      r.Meta.Count,
			AvgScore:      r.Meta.MeanScore,
			AvgConfidence: r.Meta.MeanConfidence,
		},
	}
}

// ErrorEnvelope builds the §7 "well-formed envelope with empty results"
// returned when Match itself errors (invalid input, or a resilience-layer
// failure too severe to recover from).
func ErrorEnvelope(err error, totalOffers int, elapsed time.Duration) Envelope {
	return Envelope{
		Status:         "error",
		AlgorithmUsed:  "none",
		ExecutionTimeS: elapsed.Seconds(),
		Results:        []canonical.MatchResult{},
		Errors:         []string{err.Error()},
		Meta:           EnvelopeMeta{TotalOffers: totalOffers},
	}
}
