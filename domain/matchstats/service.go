package matchstats

import (
	"context"
	"time"
)

// Service is the thin business-logic layer over Repository.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record persists one match outcome; call sites treat write failures as
// best-effort (a stats-write failure must never fail the match itself).
func (s *Service) Record(ctx context.Context, o *Outcome) error {
	return s.repo.Record(ctx, o)
}

// Summary returns the per-algorithm aggregates over the trailing window.
func (s *Service) Summary(ctx context.Context, window time.Duration) ([]AlgorithmSummary, error) {
	return s.repo.SummaryByAlgorithm(ctx, time.Now().Add(-window))
}
