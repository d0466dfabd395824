package jobposting

import "errors"

var (
	// ErrNotFound is returned when a job posting id has no matching row.
	ErrNotFound = errors.New("job posting not found")
	// ErrTitleRequired is returned when a job posting is created without a title.
	ErrTitleRequired = errors.New("job posting title is required")
)
