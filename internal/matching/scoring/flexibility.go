package scoring

import "github.com/andreypavlenko/jobmatch/internal/matching/canonical"

// FlexibilityInputs carries the derived signals the Flexibility primitive
// needs. The canonical schema (§3) does not carry explicit "desires
// flexible hours"/"offers N RTT days" fields, so callers (the variants)
// derive these from Candidate.CulturePreferences/Values and
// JobPosting.Benefits — documented as an Open Question resolution in
// DESIGN.md rather than left unimplemented.
type FlexibilityInputs struct {
	DesiredRemote   canonical.RemotePreference
	OfferedPolicy   canonical.RemotePolicy
	DesiresFlexHours bool
	OffersFlexHours  bool
	DesiresRTT       bool
	OfferedRTTDays   int
}

// Flexibility combines the telework, flexible-hours, and RTT/paid-leave
// sub-dimensions per the weights and bands in §4.3.
func Flexibility(in FlexibilityInputs) canonical.DimensionScore {
	telework, teleworkExpl := teleworkScore(in.DesiredRemote, in.OfferedPolicy)
	hours, hoursExpl := flexHoursScore(in.DesiresFlexHours, in.OffersFlexHours)
	rtt, rttExpl := rttScore(in.DesiresRTT, in.OfferedRTTDays)

	value := telework*0.40 + hours*0.35 + rtt*0.25

	return canonical.DimensionScore{
		Value:       value,
		Explanation: teleworkExpl + "; " + hoursExpl + "; " + rttExpl,
	}
}

func teleworkScore(desired canonical.RemotePreference, offered canonical.RemotePolicy) (float64, string) {
	switch {
	case desired == canonical.RemoteUnspecified:
		return 0.70, "no telework preference stated"
	case desired == canonical.RemoteFull && offered == canonical.PolicyRemote:
		return 1.0, "fully remote desired and offered"
	case desired == canonical.RemoteOnsite && offered == canonical.PolicyOnsite:
		return 1.0, "onsite desired and offered"
	case desired == canonical.RemoteHybrid && (offered == canonical.PolicyHybridPartial || offered == canonical.PolicyHybridMajority):
		return 1.0, "hybrid desired and offered"
	case desired == canonical.RemoteFull && (offered == canonical.PolicyHybridMajority || offered == canonical.PolicyHybridPartial):
		return 0.85, "remote desired, hybrid offered (partial match)"
	case desired == canonical.RemoteHybrid && offered == canonical.PolicyRemote:
		return 0.85, "hybrid desired, fully remote offered (partial match)"
	case (desired == canonical.RemoteFull || desired == canonical.RemoteHybrid) && offered == canonical.PolicyOnsite:
		return 0.30, "telework desired but role is onsite-only"
	default:
		return 0.60, "telework preference and policy partially aligned"
	}
}

func flexHoursScore(desires, offers bool) (float64, string) {
	switch {
	case desires && offers:
		return 0.95, "flexible hours desired and offered"
	case desires && !offers:
		return 0.45, "flexible hours desired but not offered"
	default:
		return 0.80, "flexible hours not a stated priority"
	}
}

func rttScore(desires bool, offeredDays int) (float64, string) {
	var band float64
	switch {
	case offeredDays >= 15:
		band = 0.95
	case offeredDays >= 10:
		band = 0.80
	case offeredDays >= 5:
		band = 0.65
	default:
		band = 0.40
	}
	if !desires {
		return 0.75, "paid leave not a stated priority"
	}
	return band, "paid leave banded on offered days"
}
