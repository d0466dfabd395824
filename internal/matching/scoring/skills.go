package scoring

import (
	"fmt"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// Skills scores candidate skill coverage of a job's required skills, per
// §4.3. Near-matches via the synonym table (or raw string similarity above
// rules.SimilarityFloor) count toward the match count. A subset of required
// skills marked essential is weighted 1.5x and the coverage renormalized.
func Skills(rules *Rules, candidateSkills, requiredSkills []string) canonical.DimensionScore {
	if len(requiredSkills) == 0 {
		return canonical.DimensionScore{Value: 0.5, Explanation: "no required skills specified"}
	}
	if len(candidateSkills) == 0 {
		return canonical.DimensionScore{Value: 0.2, Explanation: "candidate lists no skills"}
	}

	candidateSet := toLowerSet(candidateSkills)

	var matchedEssential, matchedNonEssential int
	var essentialCount, nonEssentialCount int
	var matchedNames []string

	for _, req := range requiredSkills {
		matched := matchesAny(rules, req, candidateSet)
		essential := rules.isEssential(req)
		if essential {
			essentialCount++
			if matched {
				matchedEssential++
			}
		} else {
			nonEssentialCount++
			if matched {
				matchedNonEssential++
			}
		}
		if matched {
			matchedNames = append(matchedNames, req)
		}
	}

	m := matchedEssential + matchedNonEssential
	var coverage float64
	if essentialCount > 0 {
		weightedMatched := float64(matchedEssential)*1.5 + float64(matchedNonEssential)
		weightedTotal := float64(essentialCount)*1.5 + float64(nonEssentialCount)
		coverage = weightedMatched / weightedTotal
	} else {
		coverage = float64(m) / float64(len(requiredSkills))
	}

	if len(candidateSkills) > len(requiredSkills) {
		bonus := float64(len(candidateSkills)-len(requiredSkills)) * 0.05
		if bonus > 0.2 {
			bonus = 0.2
		}
		coverage += bonus
	}
	if coverage > 1.0 {
		coverage = 1.0
	}
	if coverage < 0 {
		coverage = 0
	}

	explanation := "no overlapping skills"
	if len(matchedNames) > 0 {
		explanation = fmt.Sprintf("matched skills: %s", strings.Join(matchedNames, ", "))
	}

	return canonical.DimensionScore{Value: coverage, Explanation: explanation}
}

func toLowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// matchesAny reports whether req matches any candidate skill, either
// exactly, via a shared synonym group, or via raw string similarity above
// rules.SimilarityFloor.
func matchesAny(rules *Rules, req string, candidateSet map[string]struct{}) bool {
	reqLower := strings.ToLower(req)
	if _, ok := candidateSet[reqLower]; ok {
		return true
	}
	reqKey := rules.synonymKey(req)
	for cand := range candidateSet {
		if rules.synonymKey(cand) == reqKey {
			return true
		}
		if stringSimilarity(reqLower, cand) >= rules.SimilarityFloor {
			return true
		}
	}
	return false
}
