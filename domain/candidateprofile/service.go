package candidateprofile

import "context"

// Service is the thin business-logic layer over Repository.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new candidate profile.
func (s *Service) Create(ctx context.Context, c *CandidateProfile) (*CandidateProfile, error) {
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID resolves a candidate profile by id for the async API surface.
func (s *Service) GetByID(ctx context.Context, id string) (*CandidateProfile, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of candidate profiles.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*CandidateProfile, int, error) {
	return s.repo.List(ctx, limit, offset)
}
