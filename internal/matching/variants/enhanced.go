package variants

import (
	"context"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// Enhanced scores skills, experience, salary, culture, and flexibility —
// the variant for requests carrying soft skills or culture/priority
// signals beyond bare required skills (§4.5).
type Enhanced struct {
	rules    *scoring.Rules
	resolver scoring.TravelResolver
}

func (v *Enhanced) Name() Name { return NameEnhanced }

func (v *Enhanced) Supports(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if len(candidate.SoftSkills) > 0 || len(candidate.CulturePreferences) > 0 {
		return true
	}
	for _, job := range jobs {
		if len(job.DesiredSoftSkills) > 0 || len(job.CompanyCulture) > 0 {
			return true
		}
	}
	return false
}

func (v *Enhanced) Match(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) []canonical.MatchResult {
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		bandKnown := job.SalaryBand.Max > 0 || job.SalaryBand.Min > 0
		expectationKnown := candidate.SalaryExpectation > 0

		scores := map[canonical.Dimension]canonical.DimensionScore{
			canonical.DimSkills:      scoring.Skills(v.rules, candidate.Skills, job.RequiredSkills),
			canonical.DimExperience:  scoring.Experience(candidate.YearsExperience, job.RequiredExperienceYears, 0),
			canonical.DimSalary:      scoring.Salary(job.SalaryBand, bandKnown, candidate.SalaryExpectation, expectationKnown),
			canonical.DimCulture:     scoring.Culture(candidate.Values, job.CompanyCulture),
			canonical.DimFlexibility: scoring.Flexibility(deriveFlexibilityInputs(candidate, job)),
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
