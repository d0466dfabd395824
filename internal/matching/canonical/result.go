package canonical

// MatchResult is the output record of a single candidate-job scoring pass,
// the wire shape §6.1's `results` array and §6.4's webhook `data` carry.
type MatchResult struct {
	JobID         string                       `json:"job_id"`
	Title         string                       `json:"title"`
	GlobalScore   int                          `json:"global_score"`
	PerDimension  map[Dimension]DimensionScore `json:"per_dimension,omitempty"`
	Confidence    float64                      `json:"confidence"`
	TravelInfo    *TravelResult                `json:"travel_info,omitempty"`
	AlgorithmUsed string                       `json:"algorithm_used"`
	FallbackUsed  bool                         `json:"fallback_used"`
}

// TravelQuery identifies a single origin/destination/mode travel-time lookup.
type TravelQuery struct {
	Origin         string
	Destination    string
	Mode           TransportMode
	DepartureLocal string
}

// TravelLeg describes one transit leg of a TravelResult.
type TravelLeg struct {
	LineShortName string `json:"line_short_name"`
	VehicleType   string `json:"vehicle_type"`
}

// TravelResult is the outcome of a Travel-Time Provider lookup. Unreachable
// is the sentinel for a query that could not be resolved by any path.
type TravelResult struct {
	DurationMinutes float64      `json:"duration_minutes"`
	DistanceKM      float64      `json:"distance_km"`
	Mode            TransportMode `json:"mode"`
	TextualSummary  string       `json:"textual_summary"`
	TransitLegs     []TravelLeg  `json:"transit_legs,omitempty"`
	Unreachable     bool         `json:"unreachable"`
}
