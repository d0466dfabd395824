// Package candidateprofile is the Candidate directory: persisted candidate
// profiles that feed the async API's `candidate_id` lookups (§6.2). A
// parsed resume already is the structured shape the Canonicalizer wants;
// the document-parsing step that produces one is out of scope.
package candidateprofile

import (
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// CandidateProfile is a persisted candidate_profiles row.
type CandidateProfile struct {
	ID                  string
	DisplayName         string
	Skills              []string
	SoftSkills          []string
	YearsExperience     float64
	Location            string
	SalaryExpectation    *int
	ContractTypes       []string
	RemotePreference    string
	TransportPreference string
	DepartureTimeLocal  string
	MaxCommuteMinutes   int
	Priorities          map[string]int
	Values              []string
	CulturePreferences  []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ToRawRecord converts the persisted row into the heterogeneous shape
// canonical.CanonicalizeCandidate expects.
func (c *CandidateProfile) ToRawRecord() canonical.RawRecord {
	raw := canonical.RawRecord{
		"id":                    c.ID,
		"display_name":          c.DisplayName,
		"skills":                toInterfaceSlice(c.Skills),
		"soft_skills":           toInterfaceSlice(c.SoftSkills),
		"years_experience":      c.YearsExperience,
		"location":              c.Location,
		"contract_types":        toInterfaceSlice(c.ContractTypes),
		"remote_preference":     c.RemotePreference,
		"transport_preference":  c.TransportPreference,
		"departure_time_local":  c.DepartureTimeLocal,
		"max_commute_minutes":   c.MaxCommuteMinutes,
		"values":                toInterfaceSlice(c.Values),
		"culture_preferences":   toInterfaceSlice(c.CulturePreferences),
	}
	if c.SalaryExpectation != nil {
		raw["salary_expectation"] = *c.SalaryExpectation
	}
	if len(c.Priorities) > 0 {
		priorities := make(map[string]interface{}, len(c.Priorities))
		for k, v := range c.Priorities {
			priorities[k] = v
		}
		raw["priorities"] = priorities
	}
	return raw
}

func toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
