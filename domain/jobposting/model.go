// Package jobposting is the JobPosting directory: persisted job postings,
// readable by id, that feed the async API's `job_id` lookups (§6.2) and
// supply the Canonicalizer with company_culture/benefits enrichment.
package jobposting

import (
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// JobPosting is a persisted job_postings row.
type JobPosting struct {
	ID                      string
	CompanyID               *string
	Title                   string
	RequiredSkills          []string
	DesiredSoftSkills       []string
	RequiredExperienceYears float64
	ContractType            string
	Location                string
	RemotePolicy            string
	SalaryMin               *int
	SalaryMax               *int
	Benefits                []string
	CompanyCulture          []string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ToRawRecord converts the persisted row into the heterogeneous shape
// canonical.CanonicalizeJobPosting expects, so a row loaded by id can feed
// directly into C1 without the caller reaching into storage fields.
func (j *JobPosting) ToRawRecord() canonical.RawRecord {
	raw := canonical.RawRecord{
		"id":                         j.ID,
		"title":                      j.Title,
		"required_skills":            toInterfaceSlice(j.RequiredSkills),
		"desired_soft_skills":        toInterfaceSlice(j.DesiredSoftSkills),
		"required_experience_years":  j.RequiredExperienceYears,
		"contract_type":              j.ContractType,
		"location":                   j.Location,
		"remote_policy":              j.RemotePolicy,
		"benefits":                   toInterfaceSlice(j.Benefits),
		"company_culture":            toInterfaceSlice(j.CompanyCulture),
	}
	if j.SalaryMin != nil || j.SalaryMax != nil {
		band := map[string]interface{}{}
		if j.SalaryMin != nil {
			band["min"] = *j.SalaryMin
		}
		if j.SalaryMax != nil {
			band["max"] = *j.SalaryMax
		}
		raw["salary_band"] = band
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
