package scoring

import (
	"fmt"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// Experience scores candidate years against a job's required experience
// range, per §4.3. minReq/maxReq of (0,0) means no requirement stated.
func Experience(candidateYears, minReq, maxReq float64) canonical.DimensionScore {
	if minReq == 0 && maxReq == 0 {
		return canonical.DimensionScore{Value: 0.8, Explanation: "no experience requirement stated"}
	}
	if maxReq == 0 {
		maxReq = minReq
	}

	if candidateYears >= minReq {
		switch {
		case candidateYears <= maxReq:
			return canonical.DimensionScore{
				Value:       1.0,
				Explanation: fmt.Sprintf("%.1f years within required range", candidateYears),
			}
		case candidateYears <= 1.5*maxReq:
			value := 1.0 - (candidateYears-maxReq)/(0.5*maxReq)*(1.0-0.9)
			return canonical.DimensionScore{
				Value:       value,
				Explanation: fmt.Sprintf("%.1f years moderately exceeds required range", candidateYears),
			}
		default:
			return canonical.DimensionScore{
				Value:       0.9,
				Explanation: fmt.Sprintf("%.1f years significantly exceeds required range (overqualification)", candidateYears),
			}
		}
	}

	value := (candidateYears / minReq) * 0.8
	if value < 0 {
		value = 0
	}
	return canonical.DimensionScore{
		Value:       value,
		Explanation: fmt.Sprintf("%.1f years below the %.1f year minimum", candidateYears, minReq),
	}
}
