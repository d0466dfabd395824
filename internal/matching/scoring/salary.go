package scoring

import (
	"fmt"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// Salary scores candidate salary expectation against a job's salary band,
// per §4.3. bandKnown/expectationKnown distinguish "unknown" (0.7 floor)
// from a legitimate zero value.
func Salary(band canonical.SalaryBand, bandKnown bool, expectation int, expectationKnown bool) canonical.DimensionScore {
	if !bandKnown || !expectationKnown {
		return canonical.DimensionScore{Value: 0.7, Explanation: "salary expectations unknown on one side"}
	}

	e := float64(expectation)
	jmin, jmax := float64(band.Min), float64(band.Max)

	switch {
	case e >= jmin && e <= jmax:
		return canonical.DimensionScore{Value: 1.0, Explanation: "expectation within offered band"}
	case e < jmin:
		value := e/jmin + 0.2
		if value > 1.0 {
			value = 1.0
		}
		return canonical.DimensionScore{
			Value:       value,
			Explanation: fmt.Sprintf("expectation (%d) below band minimum (%d)", expectation, band.Min),
		}
	default: // e > jmax
		value := jmax / e
		if value < 0.1 {
			value = 0.1
		}
		return canonical.DimensionScore{
			Value:       value,
			Explanation: fmt.Sprintf("expectation (%d) above band maximum (%d)", expectation, band.Max),
		}
	}
}
