package weights

import (
	"math"
	"testing"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveNoPrioritiesReturnsNormalizedBase(t *testing.T) {
	base := DefaultBase()
	got := Resolve(base, canonical.Priorities{})

	if !almostEqual(Sum(got), 1.0) {
		t.Fatalf("expected sum 1.0, got %v", Sum(got))
	}
	for dim, w := range base {
		if !almostEqual(got[dim], w) {
			t.Fatalf("expected unchanged weight for %v, got %v want %v", dim, got[dim], w)
		}
	}
}

func TestResolveAlwaysSumsToOne(t *testing.T) {
	base := DefaultBase()
	priorities := canonical.NewPriorities(10, 1, 5, 8)
	got := Resolve(base, priorities)

	if !almostEqual(Sum(got), 1.0) {
		t.Fatalf("expected renormalized sum 1.0, got %v", Sum(got))
	}
}

func TestResolveHighCompensationPriorityIncreasesSalaryWeight(t *testing.T) {
	base := DefaultBase()
	low := Resolve(base, canonical.NewPriorities(0, 1, 0, 0))
	high := Resolve(base, canonical.NewPriorities(0, 10, 0, 0))

	if !(high[canonical.DimSalary] > low[canonical.DimSalary]) {
		t.Fatalf("expected higher compensation note to raise salary weight: low=%v high=%v",
			low[canonical.DimSalary], high[canonical.DimSalary])
	}
}

func TestMultiplierForNoteBounds(t *testing.T) {
	if got := multiplierForNote(1); !almostEqual(got, 0.5) {
		t.Fatalf("expected 0.5 at note=1, got %v", got)
	}
	if got := multiplierForNote(10); !almostEqual(got, 2.0) {
		t.Fatalf("expected 2.0 at note=10, got %v", got)
	}
	if got := multiplierForNote(0); !almostEqual(got, 0.5) {
		t.Fatalf("expected clamp to 0.5 below range, got %v", got)
	}
	if got := multiplierForNote(15); !almostEqual(got, 2.0) {
		t.Fatalf("expected clamp to 2.0 above range, got %v", got)
	}
}

func TestResolveEvolutionAffectsBothExperienceAndSkills(t *testing.T) {
	base := DefaultBase()
	got := Resolve(base, canonical.NewPriorities(10, 0, 0, 0))

	baseNorm := normalize(cloneVector(base))
	if !(got[canonical.DimExperience] > baseNorm[canonical.DimExperience]) {
		t.Fatalf("expected experience weight to rise with evolution priority")
	}
	if !(got[canonical.DimSkills] > baseNorm[canonical.DimSkills]) {
		t.Fatalf("expected skills weight to rise with evolution priority")
	}
}
