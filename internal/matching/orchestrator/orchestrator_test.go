package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/andreypavlenko/jobmatch/internal/config"
	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
	"github.com/andreypavlenko/jobmatch/internal/matching/selector"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
)

func newTestOrchestrator() *Orchestrator {
	reg := variants.Registry(variants.Deps{Rules: scoring.DefaultRules()})
	sel := selector.New(reg, []variants.Name{variants.NameGeoAware, variants.NameEnhanced, variants.NameSkillsCentric}, nil)
	cfg := config.MatchConfig{DefaultMinScore: 0.0, DefaultLimit: 10, LimitCap: 50}
	return New(reg, sel, weights.DefaultBase(), nil, nil, cfg)
}

func candidateRaw() canonical.RawRecord {
	return canonical.RawRecord{
		"id":                "c1",
		"skills":            "Python, SQL",
		"years_experience":  4,
		"contract_types":    []interface{}{"CDI"},
	}
}

func jobsRaw() []canonical.RawRecord {
	return []canonical.RawRecord{
		{"id": "j1", "title": "Backend Engineer", "required_skills": "Python, SQL", "contract_type": "CDI", "required_experience_years": 2},
		{"id": "j2", "title": "Marketing Lead", "required_skills": "SEO, Copywriting", "contract_type": "CDI"},
	}
}

func TestMatchReturnsSortedFilteredResults(t *testing.T) {
	o := newTestOrchestrator()
	resp, err := o.Match(context.Background(), candidateRaw(), jobsRaw(), Options{EnableFallback: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("expected ok status, got %q", resp.Status)
	}
	if len(resp.Results) == 0 {
		t.Fatalf("expected at least one result")
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i-1].GlobalScore < resp.Results[i].GlobalScore {
			t.Fatalf("expected results sorted descending by score")
		}
	}
}

func TestMatchInvalidInputShortCircuits(t *testing.T) {
	o := newTestOrchestrator()
	badCandidate := canonical.RawRecord{}
	_, err := o.Match(context.Background(), badCandidate, jobsRaw(), Options{})
	if err == nil {
		t.Fatalf("expected InvalidInput error for empty candidate")
	}
	var invalidErr *canonical.InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
	}
}

func TestMatchAppliesMinScoreFilter(t *testing.T) {
	o := newTestOrchestrator()
	o.cfg.DefaultMinScore = 0.99
	resp, err := o.Match(context.Background(), candidateRaw(), jobsRaw(), Options{EnableFallback: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected min_score=0.99 to filter out all results, got %d", len(resp.Results))
	}
}

func TestMatchComparisonModeAggregates(t *testing.T) {
	o := newTestOrchestrator()
	resp, err := o.Match(context.Background(), candidateRaw(), jobsRaw(), Options{Algorithm: "comparison"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Meta.ChosenAlgorithm != "comparison" {
		t.Fatalf("expected comparison chosen algorithm, got %q", resp.Meta.ChosenAlgorithm)
	}
	if resp.ComparisonDetail == nil {
		t.Fatalf("expected comparison detail to be populated")
	}
}

func TestMatchIncludeDetailsAndExplanationsToggle(t *testing.T) {
	o := newTestOrchestrator()
	resp, err := o.Match(context.Background(), candidateRaw(), jobsRaw(), Options{IncludeDetails: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range resp.Results {
		if r.PerDimension != nil {
			t.Fatalf("expected PerDimension stripped when IncludeDetails is false")
		}
	}
}
