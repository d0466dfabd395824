// Package weights implements the Dynamic Weight Resolver (C4): deriving a
// per-request weight vector from a candidate's declared priorities.
package weights

import (
	"math"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// DefaultBase is the configured default base weight vector (§4.4); variants
// may publish their own base by calling Resolve with a different vector.
// No priority lever targets DimContract/DimCulture (§4.4's lever table only
// covers skills/experience/salary/proximity/flexibility), so both pass
// through Resolve unchanged by its geometric-mean multiplier, scaled only
// by the final renormalization — still present, still weighted, just not
// priority-adjustable.
func DefaultBase() canonical.WeightVector {
	return canonical.WeightVector{
		canonical.DimSkills:      0.27,
		canonical.DimExperience:  0.18,
		canonical.DimSalary:      0.225,
		canonical.DimProximity:   0.18,
		canonical.DimFlexibility: 0.045,
		canonical.DimContract:    0.05,
		canonical.DimCulture:     0.05,
	}
}

// leverTargets maps each priority lever to the scoring dimensions it
// influences, per §4.4.
var leverTargets = map[string][]canonical.Dimension{
	"evolution":    {canonical.DimExperience, canonical.DimSkills},
	"compensation": {canonical.DimSalary},
	"proximity":    {canonical.DimProximity},
	"flexibility":  {canonical.DimFlexibility},
}

// Resolve derives the final weight vector from base and the candidate's
// priorities, per the §4.4 algorithm: clamp each lever to [1,10], convert
// to a multiplier, combine multipliers targeting the same dimension by
// geometric mean, multiply into base, and renormalize to sum to 1.0. If no
// priorities are supplied, base is returned unchanged (still renormalized
// defensively).
func Resolve(base canonical.WeightVector, priorities canonical.Priorities) canonical.WeightVector {
	if priorities.IsZero() {
		return normalize(cloneVector(base))
	}

	levers := map[string]int{
		"evolution":    priorities.Evolution,
		"compensation": priorities.Compensation,
		"proximity":    priorities.Proximity,
		"flexibility":  priorities.Flexibility,
	}

	multipliersByDimension := make(map[canonical.Dimension][]float64)
	for lever, note := range levers {
		if note == 0 {
			continue
		}
		m := multiplierForNote(note)
		for _, dim := range leverTargets[lever] {
			multipliersByDimension[dim] = append(multipliersByDimension[dim], m)
		}
	}

	result := make(canonical.WeightVector, len(base))
	for dim, w := range base {
		combined := geometricMean(multipliersByDimension[dim])
		result[dim] = w * combined
	}

	return normalize(result)
}

// multiplierForNote converts a clamped 1..10 priority note to a multiplier:
// 1 -> 0.5, 4 -> 1.0, 10 -> 2.0.
func multiplierForNote(note int) float64 {
	n := note
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return 0.5 + float64(n-1)*(1.5/9.0)
}

func geometricMean(values []float64) float64 {
	if len(values) == 0 {
		return 1.0
	}
	product := 1.0
	for _, v := range values {
		product *= v
	}
	return math.Pow(product, 1.0/float64(len(values)))
}

// normalize rescales a vector so its components sum to 1.0, per the
// invariant checked post-resolution in §4.4/§8.
func normalize(v canonical.WeightVector) canonical.WeightVector {
	sum := 0.0
	for _, w := range v {
		sum += w
	}
	if sum == 0 {
		return v
	}
	for dim, w := range v {
		v[dim] = w / sum
	}
	return v
}

func cloneVector(v canonical.WeightVector) canonical.WeightVector {
	out := make(canonical.WeightVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Sum reports the sum of a weight vector's components, for invariant
// checks.
func Sum(v canonical.WeightVector) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w
	}
	return sum
}
