package variants

import (
	"context"
	"fmt"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// Comprehensive scores every dimension, resolving commute via the
// Travel-Time Provider (through the scoring.TravelResolver seam) and
// applying the dynamic weight vector in full — the variant for requests
// with rich data and explicit priorities (§4.5).
type Comprehensive struct {
	rules    *scoring.Rules
	resolver scoring.TravelResolver
}

func (v *Comprehensive) Name() Name { return NameComprehensive }

func (v *Comprehensive) Supports(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if candidate.Priorities.IsZero() {
		return false
	}
	haveLocations := candidate.Location != ""
	for _, job := range jobs {
		if job.Location == "" {
			haveLocations = false
			break
		}
	}
	richSignals := len(candidate.SoftSkills) > 0 || len(candidate.CulturePreferences) > 0
	return haveLocations || richSignals
}

func (v *Comprehensive) Match(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) []canonical.MatchResult {
	results := make([]canonical.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		bandKnown := job.SalaryBand.Max > 0 || job.SalaryBand.Min > 0
		expectationKnown := candidate.SalaryExpectation > 0

		scores := map[canonical.Dimension]canonical.DimensionScore{
			canonical.DimSkills:      scoring.Skills(v.rules, candidate.Skills, job.RequiredSkills),
			canonical.DimExperience:  scoring.Experience(candidate.YearsExperience, job.RequiredExperienceYears, 0),
			canonical.DimSalary:      scoring.Salary(job.SalaryBand, bandKnown, candidate.SalaryExpectation, expectationKnown),
			canonical.DimProximity:   scoring.Proximity(ctx, v.resolver, candidate, job),
			canonical.DimFlexibility: scoring.Flexibility(deriveFlexibilityInputs(candidate, job)),
			canonical.DimCulture:     scoring.Culture(candidate.Values, job.CompanyCulture),
			canonical.DimContract:    scoring.Contract(job.ContractType, candidate.ContractTypes, false),
		}
		global, dims := combine(scores, weights)

		bonusPoints, bonusExplanations := EvaluateIntelligenceBonuses(v.rules, candidate, job)
		global += int(bonusPoints)
		if global > 100 {
			global = 100
		}

		result := canonical.MatchResult{
			JobID:         job.ID,
			Title:         job.Title,
			GlobalScore:   global,
			PerDimension:  dims,
			AlgorithmUsed: string(v.Name()),
		}
		if len(bonusExplanations) > 0 {
			for dim, score := range result.PerDimension {
				if dim == canonical.DimSkills {
					score.Explanation += "; intelligence bonuses: " + strings.Join(bonusExplanations, ", ")
					result.PerDimension[dim] = score
				}
			}
		}
		results = append(results, result)
	}
	return truncate(results, limit)
}

// EvaluateIntelligenceBonuses applies the configuration-driven signal
// detectors (§4.5) against canonical fields only — never free text — and
// returns the capped total bonus plus a textual justification per signal
// that fired.
func EvaluateIntelligenceBonuses(rules *scoring.Rules, candidate canonical.Candidate, job canonical.JobPosting) (float64, []string) {
	if rules == nil {
		return 0, nil
	}

	var total float64
	var explanations []string
	for _, bonus := range rules.IntelligenceBonuses {
		fired, detail := evaluateSignal(bonus.Signal, candidate, job)
		if !fired {
			continue
		}
		total += bonus.Points
		explanations = append(explanations, fmt.Sprintf("%s (+%.0f): %s", bonus.Label, bonus.Points, detail))
	}
	if total > rules.IntelligenceBonusCap {
		total = rules.IntelligenceBonusCap
	}
	return total, explanations
}

func evaluateSignal(signal string, candidate canonical.Candidate, job canonical.JobPosting) (bool, string) {
	switch signal {
	case "rapid_progression":
		return candidate.YearsExperience > 0 && candidate.YearsExperience <= 4 && len(candidate.Skills) >= 6,
			"broad skill set accumulated within a short tenure"
	case "specialization_match":
		return len(job.RequiredSkills) > 0 && len(candidate.Skills) > 0 && skillsSubsetOf(job.RequiredSkills, candidate.Skills),
			"candidate skill set is a tight superset of the role's required skills"
	case "leadership_markers":
		return containsAny(candidate.SoftSkills, "leadership", "mentoring", "management", "lead"),
			"candidate soft skills include a leadership marker"
	default:
		return false, ""
	}
}

// skillsSubsetOf reports whether every job-required skill appears in the
// candidate's skill set and the candidate lists no more than double the
// required count, indicating tight specialization rather than breadth.
func skillsSubsetOf(required, candidateSkills []string) bool {
	set := toLowerSetLocal(candidateSkills)
	for _, r := range required {
		if _, ok := set[strings.ToLower(r)]; !ok {
			return false
		}
	}
	return len(candidateSkills) <= len(required)*2
}

func toLowerSetLocal(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
