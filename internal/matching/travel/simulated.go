package travel

import (
	"context"
	"fmt"
	"strings"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// cityPair is a canonical origin/destination pair with a known approximate
// duration, used to ground the simulated estimator in plausible values
// rather than pure noise.
type cityPair struct {
	a, b            string
	drivingMinutes  float64
}

// knownPairs is a small lookup of canonical city pairs; unmatched queries
// fall through to the mode heuristic defaults below.
var knownPairs = []cityPair{
	{"paris", "boulogne-billancourt", 25},
	{"paris", "la defense", 30},
	{"paris", "saint-denis", 28},
	{"lyon", "villeurbanne", 15},
	{"lyon", "paris", 240},
	{"marseille", "aix-en-provence", 35},
}

// modeDefaultMinutesPerKM approximates a per-km pace per transport mode,
// used to turn an estimated distance into a plausible duration.
var modeDefaultMinutesPerKM = map[canonical.TransportMode]float64{
	canonical.ModeDriving:   1.4,
	canonical.ModeTransit:   2.2,
	canonical.ModeWalking:   12.0,
	canonical.ModeBicycling: 4.0,
}

// SimulatedEstimator is the deterministic fallback path: a function of
// (origin, destination, mode) using a small lookup of canonical city pairs
// and heuristic defaults per mode. It always returns a plausible positive
// duration and never fails.
type SimulatedEstimator struct{}

// NewSimulatedEstimator constructs a SimulatedEstimator.
func NewSimulatedEstimator() *SimulatedEstimator { return &SimulatedEstimator{} }

// Resolve implements Client.
func (s *SimulatedEstimator) Resolve(_ context.Context, q canonical.TravelQuery) (canonical.TravelResult, error) {
	origin := strings.ToLower(strings.TrimSpace(q.Origin))
	destination := strings.ToLower(strings.TrimSpace(q.Destination))

	if origin == "" || destination == "" {
		return canonical.TravelResult{Unreachable: true}, nil
	}

	if sameCity(origin, destination) {
		return canonical.TravelResult{
			DurationMinutes: 10,
			DistanceKM:      3,
			Mode:            q.Mode,
			TextualSummary:  "same-city estimate",
		}, nil
	}

	mode := q.Mode
	if mode == "" {
		mode = canonical.ModeDriving
	}

	if minutes, ok := lookupKnownPair(origin, destination); ok {
		adjusted := adjustForMode(minutes, canonical.ModeDriving, mode)
		return canonical.TravelResult{
			DurationMinutes: adjusted,
			DistanceKM:      adjusted / modeDefaultMinutesPerKM[canonical.ModeDriving],
			Mode:            mode,
			TextualSummary:  fmt.Sprintf("simulated estimate for known pair %s→%s", origin, destination),
		}, nil
	}

	distanceKM := stringDistanceHeuristic(origin, destination)
	perKM := modeDefaultMinutesPerKM[mode]
	if perKM == 0 {
		perKM = modeDefaultMinutesPerKM[canonical.ModeDriving]
	}
	duration := distanceKM * perKM
	if duration <= 0 {
		duration = 20
	}

	return canonical.TravelResult{
		DurationMinutes: duration,
		DistanceKM:      distanceKM,
		Mode:            mode,
		TextualSummary:  "simulated estimate (string-similarity heuristic)",
	}, nil
}

func sameCity(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func lookupKnownPair(a, b string) (float64, bool) {
	for _, p := range knownPairs {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return p.drivingMinutes, true
		}
	}
	return 0, false
}

func adjustForMode(minutes float64, from, to canonical.TransportMode) float64 {
	fromRate := modeDefaultMinutesPerKM[from]
	toRate := modeDefaultMinutesPerKM[to]
	if fromRate == 0 || toRate == 0 {
		return minutes
	}
	return minutes * (toRate / fromRate)
}

// stringDistanceHeuristic derives a plausible distance in km from the
// character-level dissimilarity of the two locality names: closer-sounding
// names (more shared prefix) are treated as geographically closer, which is
// a crude but deterministic stand-in absent a geocoder.
func stringDistanceHeuristic(a, b string) float64 {
	shared := sharedPrefixLen(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 15
	}
	similarity := float64(shared) / float64(longest)
	// Less similarity => farther apart; clamp to a plausible 5-80km band.
	distance := 80 - similarity*70
	if distance < 5 {
		distance = 5
	}
	return distance
}

func sharedPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
