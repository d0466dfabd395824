// Package company persists employer records (name, culture, values). The
// match pipeline does not read them; job postings store their own
// company_culture.
package company

import "time"

// Company is a persisted companies row.
type Company struct {
	ID        string
	Name      string
	Culture   []string
	Values    []string
	CreatedAt time.Time
}
