package variants

import (
	"context"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// SkillsCentric scores skills, contract, and experience only — the
// minimal-data variant for requests with no location or priorities (§4.5).
type SkillsCentric struct {
	rules *scoring.Rules
}

func (v *SkillsCentric) Name() Name { return NameSkillsCentric }

// Supports claims requests that carry neither location data nor declared
// priorities on either side; this is the catch-all per §4.6 rule 4, so it
// also accepts everything the other variants turn down.
func (v *SkillsCentric) Supports(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	return true
}

func (v *SkillsCentric) Match(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) []canonical.MatchResult {
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		scores := map[canonical.Dimension]canonical.DimensionScore{
			canonical.DimSkills:     scoring.Skills(v.rules, candidate.Skills, job.RequiredSkills),
			canonical.DimExperience: scoring.Experience(candidate.YearsExperience, job.RequiredExperienceYears, 0),
			canonical.DimContract:   scoring.Contract(job.ContractType, candidate.ContractTypes, false),
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
