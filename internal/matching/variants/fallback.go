package variants

import (
	"context"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// The fallback family (§4.8) is entered only by the Resilience Layer when
// the selected variant fails; none claims support on its own, and each
// operates on canonical fields only, producing MatchResult.FallbackUsed.

// Simple scores plain skill-set overlap, no weight vector, no synonyms.
type Simple struct{}

func (v *Simple) Name() Name { return NameSimple }

func (v *Simple) Supports(_ canonical.Candidate, _ []canonical.JobPosting) bool { return false }

func (v *Simple) Match(_ context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, _ canonical.WeightVector, limit int) []canonical.MatchResult {
	candidateSet := toLowerSetLocal(candidate.Skills)
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		matched := 0
		for _, req := range job.RequiredSkills {
			if _, ok := candidateSet[strings.ToLower(req)]; ok {
				matched++
			}
		}
		score := 50
		if len(job.RequiredSkills) > 0 {
			score = clampScore(float64(matched) / float64(len(job.RequiredSkills)) * 100.0)
		}
		results = append(results, canonical.MatchResult{
			JobID:         job.ID,
			Title:         job.Title,
			GlobalScore:   score,
			PerDimension:  map[canonical.Dimension]canonical.DimensionScore{canonical.DimSkills: {Value: float64(score) / 100.0, Explanation: "simple exact skill-set overlap"}},
			AlgorithmUsed: string(v.Name()),
			FallbackUsed:  true,
		})
	}
	return truncate(results, limit)
}

// Keyword scores free-text keyword overlap between candidate skills/soft
// skills and the job title plus required skills, tolerant of the
// canonicalizer itself having failed to fully normalize one side (§4.8:
// network/API-class errors route here).
type Keyword struct{}

func (v *Keyword) Name() Name { return NameKeyword }

func (v *Keyword) Supports(_ canonical.Candidate, _ []canonical.JobPosting) bool { return false }

func (v *Keyword) Match(_ context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, _ canonical.WeightVector, limit int) []canonical.MatchResult {
	candidateTokens := tokenize(strings.Join(append(append([]string{}, candidate.Skills...), candidate.SoftSkills...), " "))
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		jobText := job.Title + " " + strings.Join(job.RequiredSkills, " ")
		jobTokens := tokenize(jobText)

		matched := 0
		for tok := range jobTokens {
			if _, ok := candidateTokens[tok]; ok {
				matched++
			}
		}
		score := 40
		if len(jobTokens) > 0 {
			score = clampScore(float64(matched) / float64(len(jobTokens)) * 100.0)
		}
		results = append(results, canonical.MatchResult{
			JobID:         job.ID,
			Title:         job.Title,
			GlobalScore:   score,
			PerDimension:  map[canonical.Dimension]canonical.DimensionScore{canonical.DimSkills: {Value: float64(score) / 100.0, Explanation: "keyword overlap against job title and required skills"}},
			AlgorithmUsed: string(v.Name()),
			FallbackUsed:  true,
		})
	}
	return truncate(results, limit)
}

func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			set[f] = struct{}{}
		}
	}
	return set
}

// Statistical blends skill coverage ratio with an experience-fit ratio,
// both computed without any external calls — the entry point for
// data/format-class failures (§4.8), where canonical fields parsed fine but
// something downstream (e.g. a travel lookup) choked on their shape.
type Statistical struct{}

func (v *Statistical) Name() Name { return NameStatistical }

func (v *Statistical) Supports(_ canonical.Candidate, _ []canonical.JobPosting) bool { return false }

func (v *Statistical) Match(_ context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, _ canonical.WeightVector, limit int) []canonical.MatchResult {
	candidateSet := toLowerSetLocal(candidate.Skills)
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		skillRatio := 0.5
		if len(job.RequiredSkills) > 0 {
			matched := 0
			for _, req := range job.RequiredSkills {
				if _, ok := candidateSet[strings.ToLower(req)]; ok {
					matched++
				}
			}
			skillRatio = float64(matched) / float64(len(job.RequiredSkills))
		}

		expRatio := 0.6
		if job.RequiredExperienceYears > 0 {
			expRatio = candidate.YearsExperience / job.RequiredExperienceYears
			if expRatio > 1 {
				expRatio = 1
			}
		}

		score := clampScore((skillRatio*0.7 + expRatio*0.3) * 100.0)
		results = append(results, canonical.MatchResult{
			JobID:       job.ID,
			Title:       job.Title,
			GlobalScore: score,
			PerDimension: map[canonical.Dimension]canonical.DimensionScore{
				canonical.DimSkills:     {Value: skillRatio, Explanation: "statistical skill coverage ratio"},
				canonical.DimExperience: {Value: expRatio, Explanation: "statistical experience fit ratio"},
			},
			AlgorithmUsed: string(v.Name()),
			FallbackUsed:  true,
		})
	}
	return truncate(results, limit)
}

// Emergency never fails and returns at least one result per input job: a
// deterministic 50-point baseline, +10 if the job title mentions an
// engineering/developer keyword (§4.8).
type Emergency struct{}

func (v *Emergency) Name() Name { return NameEmergency }

func (v *Emergency) Supports(_ canonical.Candidate, _ []canonical.JobPosting) bool { return false }

func (v *Emergency) Match(_ context.Context, _ canonical.Candidate, jobs []canonical.JobPosting, _ canonical.WeightVector, limit int) []canonical.MatchResult {
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		score := 50
		title := strings.ToLower(job.Title)
		if strings.Contains(title, "engineer") || strings.Contains(title, "developer") {
			score += 10
		}
		results = append(results, canonical.MatchResult{
			JobID:         job.ID,
			Title:         job.Title,
			GlobalScore:   clampScore(float64(score)),
			PerDimension:  map[canonical.Dimension]canonical.DimensionScore{},
			AlgorithmUsed: string(v.Name()),
			FallbackUsed:  true,
		})
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
