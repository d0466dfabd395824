package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// TravelResolver is the subset of travel.Provider the Proximity primitive
// needs; kept as a narrow interface so scoring never imports the travel
// package's concrete types beyond canonical's shared query/result shapes.
type TravelResolver interface {
	Resolve(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error)
}

// durationBand maps a commute duration in minutes to a proximity score per
// the §4.3 table.
func durationBand(minutes float64) float64 {
	switch {
	case minutes <= 20:
		return 0.95
	case minutes <= 30:
		return 0.85
	case minutes <= 45:
		return 0.75
	case minutes <= 60:
		return 0.60
	case minutes <= 90:
		return 0.40
	default:
		return 0.20
	}
}

// Proximity scores commute compatibility, per §4.3. It queries resolver for
// a real/simulated travel time when both locations are present; resolver is
// expected to never fail outright (the hybrid Provider's contract), but a
// nil resolver or an Unreachable result triggers the string-similarity
// fallback band.
func Proximity(ctx context.Context, resolver TravelResolver, candidate canonical.Candidate, job canonical.JobPosting) canonical.DimensionScore {
	value, explanation := proximityCore(ctx, resolver, candidate, job)
	if candidate.Mobile {
		value += 0.10
		if value > 1.0 {
			value = 1.0
		}
		explanation += "; candidate marked mobile (+bonus)"
	}
	return canonical.DimensionScore{Value: value, Explanation: explanation}
}

func proximityCore(ctx context.Context, resolver TravelResolver, candidate canonical.Candidate, job canonical.JobPosting) (float64, string) {
	if job.RemotePolicy == canonical.PolicyRemote &&
		(candidate.RemotePreference == canonical.RemoteFull || candidate.RemotePreference == canonical.RemoteHybrid) {
		return 0.98, "fully remote role matches candidate's remote preference"
	}

	haveOrigin := candidate.Location != ""
	haveDest := job.Location != ""

	if !haveOrigin && !haveDest {
		return 0.40, "neither candidate nor job location known"
	}

	if haveOrigin && haveDest && sameCityExact(candidate.Location, job.Location) {
		return 0.85, "same-city match"
	}

	if haveOrigin && haveDest && resolver != nil {
		q := canonical.TravelQuery{
			Origin:         candidate.Location,
			Destination:    job.Location,
			Mode:           candidate.TransportPreference,
			DepartureLocal: candidate.DepartureTimeLocal,
		}
		res, err := resolver.Resolve(ctx, q)
		if err == nil && !res.Unreachable {
			return durationBand(res.DurationMinutes), fmt.Sprintf("commute estimate %.0f min via %s", res.DurationMinutes, res.Mode)
		}
	}

	if haveOrigin && haveDest {
		distance := stringDistanceHeuristicLocal(candidate.Location, job.Location)
		minutes := distance * 1.4 // driving-pace fallback heuristic
		return durationBand(minutes), "travel provider unavailable, estimated via location-string heuristic"
	}

	return 0.40, "location known on only one side"
}

func sameCityExact(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// stringDistanceHeuristicLocal mirrors the travel package's simulated
// distance heuristic so the proximity fallback stays consistent when the
// provider itself is unavailable, without importing travel (which would
// create a cycle through canonical only — avoided here for layering
// clarity, since scoring is a pure-function package).
func stringDistanceHeuristicLocal(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	shared := 0
	for shared < len(la) && shared < len(lb) && la[shared] == lb[shared] {
		shared++
	}
	longest := len(la)
	if len(lb) > longest {
		longest = len(lb)
	}
	if longest == 0 {
		return 15
	}
	similarity := float64(shared) / float64(longest)
	distance := 80 - similarity*70
	if distance < 5 {
		distance = 5
	}
	return distance
}
