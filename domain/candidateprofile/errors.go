package candidateprofile

import "errors"

var (
	// ErrNotFound is returned when a candidate id has no matching row.
	ErrNotFound = errors.New("candidate profile not found")
	// ErrSkillsRequired is returned when a profile is created with no skills.
	ErrSkillsRequired = errors.New("candidate profile requires at least one skill")
)
