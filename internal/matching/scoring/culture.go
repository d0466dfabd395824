package scoring

import "github.com/andreypavlenko/jobmatch/internal/matching/canonical"

// Culture scores Jaccard-like overlap between candidate values and company
// culture, per §4.3: floor 0.4 when both sides present but non-overlapping,
// floor 0.6 when either side is empty (insufficient signal to penalize).
func Culture(candidateValues, companyCulture []string) canonical.DimensionScore {
	if len(candidateValues) == 0 || len(companyCulture) == 0 {
		return canonical.DimensionScore{Value: 0.6, Explanation: "culture signal incomplete on one side"}
	}

	candidateSet := toLowerSet(candidateValues)
	companySet := toLowerSet(companyCulture)

	intersection := 0
	for v := range candidateSet {
		if _, ok := companySet[v]; ok {
			intersection++
		}
	}
	union := len(candidateSet) + len(companySet) - intersection
	jaccard := 0.0
	if union > 0 {
		jaccard = float64(intersection) / float64(union)
	}

	value := 0.4 + jaccard*0.6
	if value > 1.0 {
		value = 1.0
	}

	return canonical.DimensionScore{Value: value, Explanation: "overlap between candidate values and company culture"}
}
