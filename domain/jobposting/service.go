package jobposting

import "context"

// Service is the thin business-logic layer over Repository that the
// async API handlers (§6.2) call for `job_id` lookups.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new job posting.
func (s *Service) Create(ctx context.Context, job *JobPosting) (*JobPosting, error) {
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetByID resolves a job posting by id for the async API surface.
func (s *Service) GetByID(ctx context.Context, id string) (*JobPosting, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of job postings, e.g. to build the fan-out
// candidate set for `POST /v2/find-jobs`.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*JobPosting, int, error) {
	return s.repo.List(ctx, limit, offset)
}
