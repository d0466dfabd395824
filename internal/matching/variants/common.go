package variants

import (
	"sort"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// combine folds a set of per-dimension scores into a single [0,100]
// global score using the supplied weight vector, and attaches the weight
// actually used to each DimensionScore for diagnostic output (§4.5: "zero
// them elsewhere" — dimensions this variant did not consider are left
// absent from scores and therefore contribute zero weight here).
func combine(scores map[canonical.Dimension]canonical.DimensionScore, weights canonical.WeightVector) (int, map[canonical.Dimension]canonical.DimensionScore) {
	var weighted float64
	var weightSum float64
	out := make(map[canonical.Dimension]canonical.DimensionScore, len(scores))

	for dim, s := range scores {
		w := weights[dim]
		s.Weight = w
		out[dim] = s
		weighted += s.Value * w
		weightSum += w
	}

	if weightSum == 0 {
		return 0, out
	}

	global := (weighted / weightSum) * 100.0
	return clampScore(global), out
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}

// truncate sorts results by descending global score and then applies the
// caller-supplied limit (no cap when limit <= 0).
func truncate(results []canonical.MatchResult, limit int) []canonical.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].GlobalScore > results[j].GlobalScore
	})
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// deriveFlexibilityInputs maps the canonical Candidate/JobPosting token
// fields (Values, CulturePreferences, Benefits) onto the Flexibility
// primitive's inputs, per the DESIGN.md resolution of the missing
// "desires flexible hours"/"RTT days offered" schema fields: a small fixed
// vocabulary is matched against free-form token lists rather than adding
// new canonical fields the spec's §3 type list doesn't name.
func deriveFlexibilityInputs(candidate canonical.Candidate, job canonical.JobPosting) scoring.FlexibilityInputs {
	desiresFlexHours := containsAny(candidate.Values, "flexible hours", "flextime", "flexible schedule") ||
		containsAny(candidate.CulturePreferences, "flexible hours", "flextime", "flexible schedule")
	offersFlexHours := containsAny(job.Benefits, "flexible hours", "flextime", "flexible schedule")

	desiresRTT := containsAny(candidate.Values, "rtt", "paid time off", "pto") ||
		containsAny(candidate.CulturePreferences, "rtt", "paid time off", "pto")
	offeredRTTDays := rttDaysFromBenefits(job.Benefits)

	return scoring.FlexibilityInputs{
		DesiredRemote:    candidate.RemotePreference,
		OfferedPolicy:    job.RemotePolicy,
		DesiresFlexHours: desiresFlexHours,
		OffersFlexHours:  offersFlexHours,
		DesiresRTT:       desiresRTT,
		OfferedRTTDays:   offeredRTTDays,
	}
}

func containsAny(tokens []string, candidates ...string) bool {
	for _, t := range tokens {
		lower := strings.ToLower(t)
		for _, c := range candidates {
			if strings.Contains(lower, c) {
				return true
			}
		}
	}
	return false
}

// rttDaysFromBenefits looks for a benefit token naming a day count (e.g.
// "12 RTT days"); absent an explicit number it falls back to a flat 10 days
// when any RTT/paid-leave benefit is mentioned at all, 0 otherwise.
func rttDaysFromBenefits(benefits []string) int {
	for _, b := range benefits {
		lower := strings.ToLower(b)
		if !strings.Contains(lower, "rtt") && !strings.Contains(lower, "paid time off") && !strings.Contains(lower, "pto") {
			continue
		}
		n := firstInt(lower)
		if n > 0 {
			return n
		}
		return 10
	}
	return 0
}

func firstInt(s string) int {
	n := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		} else if found {
			break
		}
	}
	return n
}
