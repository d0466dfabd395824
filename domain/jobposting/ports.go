package jobposting

import "context"

// Repository is the persistence port for job postings.
type Repository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id string) (*JobPosting, error)
	List(ctx context.Context, limit, offset int) ([]*JobPosting, int, error)
}
