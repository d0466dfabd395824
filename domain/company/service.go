package company

import "context"

// Service is the thin business-logic layer over Repository.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new company.
func (s *Service) Create(ctx context.Context, c *Company) (*Company, error) {
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID resolves a company by id. No match path calls it: a job
// posting's company_culture comes from its own stored column.
func (s *Service) GetByID(ctx context.Context, id string) (*Company, error) {
	return s.repo.GetByID(ctx, id)
}
