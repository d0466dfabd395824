package canonical

import "testing"

func TestCanonicalizeCandidateRequiresSkills(t *testing.T) {
	_, err := CanonicalizeCandidate(RawRecord{"display_name": "Alex"})
	if err == nil {
		t.Fatal("expected InvalidInputError when skills is absent")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Fatalf("expected *InvalidInputError, got %T", err)
	}
}

func TestCanonicalizeCandidateSkillNormalization(t *testing.T) {
	c, err := CanonicalizeCandidate(RawRecord{
		"skills": "python, Django;  sql ,py",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Skills) != 4 {
		t.Fatalf("expected 4 distinct skills after trim/dedup, got %v", c.Skills)
	}
}

func TestCanonicalizeSkillDropsShortTokens(t *testing.T) {
	c, err := CanonicalizeCandidate(RawRecord{"skills": "Python, R, Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range c.Skills {
		if len(s) < 2 {
			t.Fatalf("token shorter than 2 chars survived normalization: %q", s)
		}
	}
	if len(c.Skills) != 2 {
		t.Fatalf("expected R to be dropped (len 1), got %v", c.Skills)
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	raw := RawRecord{
		"skills":             "Python, SQL",
		"years_experience":   "5 years",
		"salary_expectation": "55K",
		"location":           "  paris  ",
	}
	c1, err := CanonicalizeCandidate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reRaw := RawRecord{
		"skills":             c1.Skills,
		"years_experience":   c1.YearsExperience,
		"salary_expectation": c1.SalaryExpectation,
		"location":           c1.Location,
	}
	c2, err := CanonicalizeCandidate(reRaw)
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if c1.YearsExperience != c2.YearsExperience || c1.SalaryExpectation != c2.SalaryExpectation || c1.Location != c2.Location {
		t.Fatalf("canonicalize is not idempotent: %+v vs %+v", c1, c2)
	}
}

func TestNormalizeSalaryScalarAppliesKSuffix(t *testing.T) {
	if got := normalizeSalaryScalar("55K"); got != 55000 {
		t.Fatalf("expected 55000, got %d", got)
	}
	if got := normalizeSalaryScalar("60000"); got != 60000 {
		t.Fatalf("expected 60000, got %d", got)
	}
}

func TestNormalizeSalaryBandEnforcesMinLEMax(t *testing.T) {
	band, err := normalizeSalaryBand("60-50K")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if band.Min > band.Max {
		t.Fatalf("expected band.Min <= band.Max, got %+v", band)
	}
}

func TestCanonicalizeJobRequiresTitleAndSkills(t *testing.T) {
	_, err := CanonicalizeJobPosting(RawRecord{"required_skills": "Go"})
	if err == nil {
		t.Fatal("expected error when title missing")
	}
	_, err = CanonicalizeJobPosting(RawRecord{"title": "Engineer"})
	if err == nil {
		t.Fatal("expected error when required_skills missing")
	}
}

func TestCanonicalizeJobSucceeds(t *testing.T) {
	j, err := CanonicalizeJobPosting(RawRecord{
		"title":           "Senior Python",
		"required_skills": []interface{}{"Python", "Django", "PostgreSQL"},
		"location":        "paris",
		"salary_band":     map[string]interface{}{"min": 50000.0, "max": 60000.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.SalaryBand.Min != 50000 || j.SalaryBand.Max != 60000 {
		t.Fatalf("unexpected salary band: %+v", j.SalaryBand)
	}
	if j.Location != "Paris" {
		t.Fatalf("expected location to be capitalized, got %q", j.Location)
	}
}

func TestNormalizeRemotePreferenceUnknownIsUnspecified(t *testing.T) {
	if got := normalizeRemotePreference("somewhere else entirely"); got != RemoteUnspecified {
		t.Fatalf("expected unspecified, got %q", got)
	}
	if got := normalizeRemotePreference("100% remote"); got != RemoteFull {
		t.Fatalf("expected remote, got %q", got)
	}
}
