package company

import "errors"

// ErrNotFound is returned when a company id has no matching row.
var ErrNotFound = errors.New("company not found")
