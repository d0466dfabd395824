package selector

import (
	"context"
	"testing"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
)

func newTestSelector() *Selector {
	reg := variants.Registry(variants.Deps{Rules: scoring.DefaultRules()})
	return New(reg, []variants.Name{variants.NameGeoAware, variants.NameEnhanced, variants.NameSkillsCentric}, nil)
}

func TestSelectDefaultsToSkillsCentric(t *testing.T) {
	s := newTestSelector()
	candidate := canonical.Candidate{Skills: []string{"Python"}}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Dev", RequiredSkills: []string{"Python"}}}

	v, rule := s.Select(candidate, jobs)
	if v.Name() != variants.NameSkillsCentric {
		t.Fatalf("expected skills-centric default, got %v (rule %v)", v.Name(), rule)
	}
	if rule != RuleSkillsDefault {
		t.Fatalf("expected default rule, got %v", rule)
	}
}

func TestSelectComprehensiveWhenPrioritiesAndLocations(t *testing.T) {
	s := newTestSelector()
	candidate := canonical.Candidate{Location: "Paris", Priorities: canonical.NewPriorities(8, 5, 5, 5)}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Dev", Location: "Lyon"}}

	v, rule := s.Select(candidate, jobs)
	if v.Name() != variants.NameComprehensive {
		t.Fatalf("expected comprehensive, got %v", v.Name())
	}
	if rule != RuleComprehensive {
		t.Fatalf("expected comprehensive rule, got %v", rule)
	}
}

func TestSelectGeoAwareWhenBothLocationsAndRemoteExpressed(t *testing.T) {
	s := newTestSelector()
	candidate := canonical.Candidate{Location: "Paris", RemotePreference: canonical.RemoteHybrid}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Dev", Location: "Lyon"}}

	v, rule := s.Select(candidate, jobs)
	if v.Name() != variants.NameGeoAware {
		t.Fatalf("expected geo-aware, got %v", v.Name())
	}
	if rule != RuleGeoAware {
		t.Fatalf("expected geo-aware rule, got %v", rule)
	}
}

func TestExplainReportsChosenAndAlternatives(t *testing.T) {
	s := newTestSelector()
	candidate := canonical.Candidate{Skills: []string{"Python"}}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Dev", RequiredSkills: []string{"Python"}}}

	explanation := s.Explain(candidate, jobs)
	if explanation.Chosen != variants.NameSkillsCentric {
		t.Fatalf("expected skills-centric chosen, got %v", explanation.Chosen)
	}
	if len(explanation.Alternatives) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(explanation.Alternatives))
	}
}

func TestRunComparisonAggregatesWeightedAverage(t *testing.T) {
	s := newTestSelector()
	candidate := canonical.Candidate{
		Skills:             []string{"Python", "SQL"},
		SoftSkills:         []string{"communication"},
		Location:           "Paris",
		RemotePreference:   canonical.RemoteHybrid,
		YearsExperience:    4,
	}
	jobs := []canonical.JobPosting{
		{ID: "j1", Title: "Backend Engineer", RequiredSkills: []string{"Python", "SQL"}, Location: "Paris", RemotePolicy: canonical.PolicyHybridPartial},
	}
	w := weights.Resolve(weights.DefaultBase(), candidate.Priorities)

	aggregated, perVariant, err := s.RunComparison(context.Background(), candidate, jobs, w, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggregated) != 1 {
		t.Fatalf("expected 1 aggregated result, got %d", len(aggregated))
	}
	if aggregated[0].AlgorithmUsed != "comparison" {
		t.Fatalf("expected comparison label, got %q", aggregated[0].AlgorithmUsed)
	}
	if len(perVariant) != 3 {
		t.Fatalf("expected 3 variant result sets, got %d", len(perVariant))
	}
}
