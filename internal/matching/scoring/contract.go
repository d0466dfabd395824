package scoring

import "github.com/andreypavlenko/jobmatch/internal/matching/canonical"

// nearMatchContracts recognizes the combinations of (job offers, candidate
// accepts) that are compatible but not an exact match, e.g. a candidate
// open to CDD accepting a CDI offer.
var nearMatchContracts = map[canonical.ContractType][]canonical.ContractType{
	canonical.ContractCDI: {canonical.ContractCDD, canonical.ContractFreelance},
	canonical.ContractCDD: {canonical.ContractCDI},
}

// Contract scores contract-type compatibility, per §4.3.
func Contract(jobContract canonical.ContractType, accepted []canonical.ContractType, eitherUnknown bool) canonical.DimensionScore {
	if eitherUnknown || jobContract == "" || len(accepted) == 0 {
		return canonical.DimensionScore{Value: 0.7, Explanation: "contract preference unknown on one side"}
	}

	for _, a := range accepted {
		if a == jobContract {
			return canonical.DimensionScore{Value: 1.0, Explanation: "exact contract type match"}
		}
	}

	for _, a := range accepted {
		for _, near := range nearMatchContracts[jobContract] {
			if a == near {
				return canonical.DimensionScore{Value: 0.8, Explanation: "recognized near-match contract type"}
			}
		}
	}

	return canonical.DimensionScore{Value: 0.3, Explanation: "contract type mismatch"}
}
