// Package selector implements the Algorithm Selector (C6): rule-based
// single-variant selection, comparison-mode parallel fan-out and
// aggregation, and the diagnostic explain() operation.
package selector

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
)

// Selector holds the variant registry and the comparison-mode
// configuration (which variants to run, and their aggregation weights).
type Selector struct {
	registry           map[variants.Name]variants.Variant
	comparisonVariants []variants.Name
	comparisonWeights  map[variants.Name]float64
}

// New builds a Selector. comparisonVariants/comparisonWeights come from
// config.Match (§6.5); an empty comparisonWeights map means equal weighting.
func New(registry map[variants.Name]variants.Variant, comparisonVariants []variants.Name, comparisonWeights map[variants.Name]float64) *Selector {
	return &Selector{
		registry:           registry,
		comparisonVariants: comparisonVariants,
		comparisonWeights:  comparisonWeights,
	}
}

// Rule names a fixed-priority selection rule, per §4.6.
type Rule string

const (
	RuleComprehensive Rule = "comprehensive: priorities present and (both-side location or rich soft-skill/culture data)"
	RuleEnhanced      Rule = "enhanced: soft skills or culture preferences present"
	RuleGeoAware      Rule = "geo-aware: both-side location and a remote preference expressed"
	RuleSkillsDefault Rule = "skills-centric: default"
)

// Select runs the fixed-priority rule chain and returns the winning
// variant along with the rule that fired.
func (s *Selector) Select(candidate canonical.Candidate, jobs []canonical.JobPosting) (variants.Variant, Rule) {
	if comprehensiveApplies(candidate, jobs) {
		return s.registry[variants.NameComprehensive], RuleComprehensive
	}
	if enhancedApplies(candidate, jobs) {
		return s.registry[variants.NameEnhanced], RuleEnhanced
	}
	if geoAwareApplies(candidate, jobs) {
		return s.registry[variants.NameGeoAware], RuleGeoAware
	}
	return s.registry[variants.NameSkillsCentric], RuleSkillsDefault
}

func comprehensiveApplies(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if candidate.Priorities.IsZero() {
		return false
	}
	return bothSideLocation(candidate, jobs) || richSoftSkillOrCulture(candidate, jobs)
}

func enhancedApplies(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	return richSoftSkillOrCulture(candidate, jobs)
}

func geoAwareApplies(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if !bothSideLocation(candidate, jobs) {
		return false
	}
	if candidate.RemotePreference != "" && candidate.RemotePreference != canonical.RemoteUnspecified {
		return true
	}
	for _, job := range jobs {
		if job.RemotePolicy != "" {
			return true
		}
	}
	return false
}

func bothSideLocation(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
	if candidate.Location == "" || len(jobs) == 0 {
		return false
	}
	for _, job := range jobs {
		if job.Location == "" {
			return false
		}
	}
	return true
}

func richSoftSkillOrCulture(candidate canonical.Candidate, jobs []canonical.JobPosting) bool {
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

// Alternative is one non-chosen variant's diagnostic summary.
type Alternative struct {
	Name       variants.Name `json:"name"`
	WouldWork  bool          `json:"would_work"`
	Confidence float64       `json:"confidence"`
}

// Explanation is the Selector's diagnostic output, per §4.6.
type Explanation struct {
	Chosen       variants.Name `json:"chosen"`
	RuleFired    Rule          `json:"rule_fired"`
	Alternatives []Alternative `json:"alternatives"`
}

// Explain reports the chosen variant, the rule that selected it, and how
// every other variant would have fared.
func (s *Selector) Explain(candidate canonical.Candidate, jobs []canonical.JobPosting) Explanation {
	chosen, rule := s.Select(candidate, jobs)

	order := []variants.Name{variants.NameComprehensive, variants.NameEnhanced, variants.NameGeoAware, variants.NameSkillsCentric}
	var alternatives []Alternative
	for _, name := range order {
		v := s.registry[name]
		if v == nil || v.Name() == chosen.Name() {
			continue
		}
		works := v.Supports(candidate, jobs)
		alternatives = append(alternatives, Alternative{
			Name:       name,
			WouldWork:  works,
			Confidence: alternativeConfidence(name, candidate, jobs, works),
		})
	}

	return Explanation{Chosen: chosen.Name(), RuleFired: rule, Alternatives: alternatives}
}

// alternativeConfidence scores how strongly an alternative's trigger
// signals are present, not just whether its predicate passed, so
// diagnostics can distinguish "barely qualifies" from "strong fit".
func alternativeConfidence(name variants.Name, candidate canonical.Candidate, jobs []canonical.JobPosting, works bool) float64 {
	if !works {
		return 0.0
	}
	switch name {
	case variants.NameComprehensive:
		signals := 0.0
		total := 2.0
		if !candidate.Priorities.IsZero() {
			signals++
		}
		if bothSideLocation(candidate, jobs) || richSoftSkillOrCulture(candidate, jobs) {
			signals++
		}
		return signals / total
	case variants.NameEnhanced:
		if len(candidate.SoftSkills) > 0 && len(candidate.CulturePreferences) > 0 {
			return 1.0
		}
		return 0.6
	case variants.NameGeoAware:
		return 0.8
	default:
		return 0.5
	}
}

// aggregatedResult accumulates one job's per-variant scores during
// comparison-mode aggregation.
type aggregatedResult struct {
	perVariant map[variants.Name]canonical.MatchResult
}

// RunComparison runs the configured comparison-mode variant subset
// concurrently (errgroup fan-out, §5) and aggregates per job id as a
// weighted average of each variant's global score, retaining per-variant
// subscores for diagnostics (§4.6).
func (s *Selector) RunComparison(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) ([]canonical.MatchResult, map[variants.Name][]canonical.MatchResult, error) {
	names := s.comparisonVariants
	if len(names) == 0 {
		names = []variants.Name{variants.NameGeoAware, variants.NameEnhanced, variants.NameSkillsCentric}
	}

	perVariantResults := make(map[variants.Name][]canonical.MatchResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]canonical.MatchResult, len(names))
	for i, name := range names {
		i, name := i, name
		v := s.registry[name]
		if v == nil {
			continue
		}
		g.Go(func() error {
			results[i] = v.Match(gctx, candidate, jobs, weights, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for i, name := range names {
		perVariantResults[name] = results[i]
	}

	byJob := make(map[string]*aggregatedResult)
	var order []string
	for i, name := range names {
		for _, r := range results[i] {
			agg, ok := byJob[r.JobID]
			if !ok {
				agg = &aggregatedResult{perVariant: make(map[variants.Name]canonical.MatchResult)}
				byJob[r.JobID] = agg
				order = append(order, r.JobID)
			}
			agg.perVariant[name] = r
		}
	}

	aggregated := make([]canonical.MatchResult, 0, len(order))
	for _, jobID := range order {
		agg := byJob[jobID]
		var weightedSum, weightSum float64
		var title string
		dims := make(map[canonical.Dimension]canonical.DimensionScore)
		for name, r := range agg.perVariant {
			w := s.weightFor(name, len(names))
			weightedSum += float64(r.GlobalScore) * w
			weightSum += w
			title = r.Title
			for dim, ds := range r.PerDimension {
				dims[dim] = ds
			}
		}
		score := 0
		if weightSum > 0 {
			score = int(weightedSum/weightSum + 0.5)
		}
		aggregated = append(aggregated, canonical.MatchResult{
			JobID:         jobID,
			Title:         title,
			GlobalScore:   score,
			PerDimension:  dims,
			AlgorithmUsed: "comparison",
		})
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].GlobalScore > aggregated[j].GlobalScore
	})
	if limit > 0 && len(aggregated) > limit {
		aggregated = aggregated[:limit]
	}

	return aggregated, perVariantResults, nil
}

func (s *Selector) weightFor(name variants.Name, count int) float64 {
	if w, ok := s.comparisonWeights[name]; ok {
		return w
	}
	if count == 0 {
		return 1.0
	}
	return 1.0 / float64(count)
}
