package candidateprofile

import "context"

// Repository is the persistence port for candidate profiles.
type Repository interface {
	Create(ctx context.Context, c *CandidateProfile) error
	GetByID(ctx context.Context, id string) (*CandidateProfile, error)
	List(ctx context.Context, limit, offset int) ([]*CandidateProfile, int, error)
}
