// Package canonical defines the normalized schema every matching component
// operates on, and the normalization rules (C1) that produce it from
// heterogeneous candidate/job input.
package canonical

import "fmt"

// ContractType is one of the recognized employment contract forms.
type ContractType string

const (
	ContractCDI          ContractType = "CDI"
	ContractCDD          ContractType = "CDD"
	ContractFreelance    ContractType = "FREELANCE"
	ContractInternship   ContractType = "INTERNSHIP"
	ContractApprentice   ContractType = "APPRENTICESHIP"
)

// RemotePreference is a candidate's stance on remote work.
type RemotePreference string

const (
	RemoteOnsite      RemotePreference = "onsite"
	RemoteHybrid      RemotePreference = "hybrid"
	RemoteFull        RemotePreference = "remote"
	RemoteUnspecified RemotePreference = "unspecified"
)

// RemotePolicy is a job's stance on remote work.
type RemotePolicy string

const (
	PolicyOnsite         RemotePolicy = "onsite"
	PolicyHybridPartial  RemotePolicy = "hybrid_partial"
	PolicyHybridMajority RemotePolicy = "hybrid_majority"
	PolicyRemote         RemotePolicy = "remote"
)

// TransportMode is a travel mode accepted by the Travel-Time Provider.
type TransportMode string

const (
	ModeDriving   TransportMode = "driving"
	ModeTransit   TransportMode = "transit"
	ModeWalking   TransportMode = "walking"
	ModeBicycling TransportMode = "bicycling"
)

// SalaryBand is an inclusive annual salary range, min <= max.
type SalaryBand struct {
	Min int
	Max int
}

// Priorities are the candidate-declared weights on the coarse-grained
// priority levers consumed by the Dynamic Weight Resolver (C4).
type Priorities struct {
	Evolution    int
	Compensation int
	Proximity    int
	Flexibility  int
	set          bool
}

// IsZero reports whether no priority lever was supplied.
func (p Priorities) IsZero() bool { return !p.set }

// NewPriorities builds a Priorities value from already-clamped lever notes,
// for callers outside this package (API request decoding, tests) that need
// to construct one directly rather than via Canonicalize.
func NewPriorities(evolution, compensation, proximity, flexibility int) Priorities {
	return Priorities{
		Evolution:    evolution,
		Compensation: compensation,
		Proximity:    proximity,
		Flexibility:  flexibility,
		set:          true,
	}
}

// Candidate is the canonical, immutable representation of a candidate
// profile produced by Canonicalize.
type Candidate struct {
	ID                  string
	DisplayName         string
	Skills              []string
	SoftSkills          []string
	YearsExperience     float64
	Location            string
	SalaryExpectation   int
	ContractTypes       []ContractType
	RemotePreference    RemotePreference
	TransportPreference TransportMode
	DepartureTimeLocal  string
	MaxCommuteMinutes   int
	Priorities          Priorities
	Values              []string
	CulturePreferences  []string
	Mobile              bool
}

// JobPosting is the canonical, immutable representation of a job posting
// produced by Canonicalize.
type JobPosting struct {
	ID                      string
	Title                   string
	Company                 string
	RequiredSkills          []string
	DesiredSoftSkills       []string
	RequiredExperienceYears float64
	ContractType            ContractType
	Location                string
	RemotePolicy            RemotePolicy
	SalaryBand              SalaryBand
	Benefits                []string
	CompanyCulture          []string
}

// WeightVector maps a scoring dimension to its normalized, non-negative
// weight. Components must sum to 1.0 within floating tolerance; the
// Dynamic Weight Resolver (C4) is the sole producer.
type WeightVector map[Dimension]float64

// Dimension is a scoring axis.
type Dimension string

const (
	DimSkills     Dimension = "skills"
	DimExperience Dimension = "experience"
	DimSalary     Dimension = "salary"
	DimProximity  Dimension = "proximity"
	DimFlexibility Dimension = "flexibility"
	DimCulture    Dimension = "culture"
	DimContract   Dimension = "contract"
)

// AllDimensions lists every scoring dimension in a stable order.
var AllDimensions = []Dimension{
	DimSkills, DimExperience, DimSalary, DimProximity, DimFlexibility, DimCulture, DimContract,
}

// DimensionScore is a single scoring primitive's output.
type DimensionScore struct {
	Value       float64 `json:"value"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation,omitempty"`
}

// InvalidInputError is returned by Canonicalize when a required field is
// absent or unparseable; it never enters the resilience chain (§7).
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Reason)
}
