package matchstats

import (
	"context"
	"time"
)

// Repository is the persistence port for match outcomes.
type Repository interface {
	Record(ctx context.Context, o *Outcome) error
	SummaryByAlgorithm(ctx context.Context, since time.Time) ([]AlgorithmSummary, error)
}
