package variants

import (
	"context"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// GeoAware scores skills, proximity, contract, and remote-policy alignment
// — the variant for requests where both sides have locations and a remote
// stance is expressed (§4.5).
type GeoAware struct {
	rules    *scoring.Rules
	resolver scoring.TravelResolver
}

func (v *GeoAware) Name() Name { return NameGeoAware }

func (v *GeoAware) Supports(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if candidate.Location == "" || candidate.RemotePreference == "" {
		return false
	}
	for _, job := range jobs {
		if job.Location == "" || job.RemotePolicy == "" {
			return false
		}
	}
	return len(jobs) > 0
}

func (v *GeoAware) Match(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) []canonical.MatchResult {
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		proximity := scoring.Proximity(ctx, v.resolver, candidate, job)
		flex := scoring.Flexibility(deriveFlexibilityInputs(candidate, job))

		scores := map[canonical.Dimension]canonical.DimensionScore{
			canonical.DimSkills:      scoring.Skills(v.rules, candidate.Skills, job.RequiredSkills),
			canonical.DimProximity:   proximity,
			canonical.DimContract:    scoring.Contract(job.ContractType, candidate.ContractTypes, false),
			canonical.DimFlexibility: flex,
		}
		global, dims := combine(scores, weights)
		results = append(results, canonical.MatchResult{
			JobID:         job.ID,
			Title:         job.Title,
			GlobalScore:   global,
			PerDimension:  dims,
			AlgorithmUsed: string(v.Name()),
		})
	}
	return truncate(results, limit)
}
