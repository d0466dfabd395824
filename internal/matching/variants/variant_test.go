package variants

import (
	"context"
	"testing"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
)

func baseJobs() []canonical.JobPosting {
	return []canonical.JobPosting{
		{ID: "j1", Title: "Backend Engineer", RequiredSkills: []string{"Python", "SQL"}, ContractType: canonical.ContractCDI, RequiredExperienceYears: 3},
		{ID: "j2", Title: "Data Analyst", RequiredSkills: []string{"SQL", "Excel"}, ContractType: canonical.ContractCDD, RequiredExperienceYears: 1},
	}
}

func TestSkillsCentricAlwaysSupports(t *testing.T) {
	v := &SkillsCentric{rules: scoring.DefaultRules()}
	if !v.Supports(canonical.Candidate{}, nil) {
		t.Fatalf("expected skills-centric to always claim support")
	}
}

func TestSkillsCentricMatchOrdersByScore(t *testing.T) {
	v := &SkillsCentric{rules: scoring.DefaultRules()}
	candidate := canonical.Candidate{Skills: []string{"Python", "SQL"}, YearsExperience: 4, ContractTypes: []canonical.ContractType{canonical.ContractCDI}}
	w := weights.Resolve(weights.DefaultBase(), canonical.Priorities{})

	results := v.Match(context.Background(), candidate, baseJobs(), w, 10)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].GlobalScore < results[1].GlobalScore {
		t.Fatalf("expected results sorted descending by score, got %v then %v", results[0].GlobalScore, results[1].GlobalScore)
	}
	if results[0].AlgorithmUsed != string(NameSkillsCentric) {
		t.Fatalf("expected algorithm label %q, got %q", NameSkillsCentric, results[0].AlgorithmUsed)
	}
}

func TestGeoAwareRequiresLocationAndRemoteOnBothSides(t *testing.T) {
	v := &GeoAware{rules: scoring.DefaultRules()}
	jobs := baseJobs()
	jobs[0].Location = "Lyon"
	jobs[0].RemotePolicy = canonical.PolicyOnsite
	jobs[1].Location = "Paris"
	jobs[1].RemotePolicy = canonical.PolicyRemote

	withLocation := canonical.Candidate{Location: "Paris", RemotePreference: canonical.RemoteHybrid}
	if !v.Supports(withLocation, jobs) {
		t.Fatalf("expected support when both sides carry location and remote stance")
	}

	withoutLocation := canonical.Candidate{RemotePreference: canonical.RemoteHybrid}
	if v.Supports(withoutLocation, jobs) {
		t.Fatalf("expected no support without candidate location")
	}
}

func TestComprehensiveRequiresPriorities(t *testing.T) {
	v := &Comprehensive{rules: scoring.DefaultRules()}
	jobs := baseJobs()
	jobs[0].Location = "Lyon"
	jobs[1].Location = "Lyon"

	noPriorities := canonical.Candidate{Location: "Paris"}
	if v.Supports(noPriorities, jobs) {
		t.Fatalf("expected no support without priorities")
	}

	withPriorities := canonical.Candidate{Location: "Paris", Priorities: canonical.NewPriorities(8, 5, 5, 5)}
	if !v.Supports(withPriorities, jobs) {
		t.Fatalf("expected support with priorities and locations on both sides")
	}
}

func TestEmergencyNeverFailsAndBonusesEngineeringTitles(t *testing.T) {
	v := &Emergency{}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Senior Software Engineer"}, {ID: "j2", Title: "Office Manager"}}
	results := v.Match(context.Background(), canonical.Candidate{}, jobs, nil, 10)

	if len(results) != 2 {
		t.Fatalf("expected one result per job, got %d", len(results))
	}
	if results[0].GlobalScore != 60 {
		t.Fatalf("expected engineering title to score 60, got %d", results[0].GlobalScore)
	}
	if results[1].GlobalScore != 50 {
		t.Fatalf("expected non-engineering title to score 50, got %d", results[1].GlobalScore)
	}
	for _, r := range results {
		if !r.FallbackUsed {
			t.Fatalf("expected FallbackUsed=true on every emergency result")
		}
	}
}

func TestSimpleFallbackScoresPlainOverlap(t *testing.T) {
	v := &Simple{}
	candidate := canonical.Candidate{Skills: []string{"Python", "SQL"}}
	jobs := []canonical.JobPosting{{ID: "j1", Title: "Backend", RequiredSkills: []string{"Python", "SQL", "Go"}}}
	results := v.Match(context.Background(), candidate, jobs, nil, 10)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := 67 // 2/3 rounded
	if results[0].GlobalScore != want {
		t.Fatalf("expected score %d, got %d", want, results[0].GlobalScore)
	}
}

func TestRegistryContainsAllVariants(t *testing.T) {
	reg := Registry(Deps{Rules: scoring.DefaultRules()})
	for _, name := range []Name{NameSkillsCentric, NameGeoAware, NameEnhanced, NameComprehensive, NameSimple, NameKeyword, NameStatistical, NameEmergency} {
		if _, ok := reg[name]; !ok {
			t.Fatalf("expected registry to contain variant %q", name)
		}
	}
}
