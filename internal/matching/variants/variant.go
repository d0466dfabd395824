// Package variants implements the Algorithm Variants (C5): named scoring
// strategies over a shared set of primitives, each claiming support for a
// request shape and producing ranked MatchResults against a supplied weight
// vector.
package variants

import (
	"context"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
)

// Name identifies a registered variant.
type Name string

const (
	NameSkillsCentric Name = "skills"
	NameGeoAware      Name = "geo"
	NameEnhanced      Name = "enhanced"
	NameComprehensive Name = "comprehensive"
	NameSimple        Name = "simple"
	NameKeyword       Name = "keyword"
	NameStatistical   Name = "statistical"
	NameEmergency     Name = "emergency"
)

// Variant is the common contract every algorithm variant implements (§4.5):
// claim support for a request shape, then score a candidate against a set
// of jobs.
type Variant interface {
	Name() Name
	Supports(candidate canonical.Candidate, jobs []canonical.JobPosting) bool
	Match(ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, weights canonical.WeightVector, limit int) []canonical.MatchResult
}

// Deps bundles the primitive/resolver/config dependencies shared by every
// variant, so constructing the registry is a single call site.
type Deps struct {
	Rules    *scoring.Rules
	Resolver scoring.TravelResolver
}

// Registry returns every variant keyed by Name, the "registry map keyed by
// variant name" §9 calls for, including the fallback family only ever
// entered via the Resilience Layer (§4.8).
func Registry(deps Deps) map[Name]Variant {
	return map[Name]Variant{
		NameSkillsCentric: &SkillsCentric{rules: deps.Rules},
		NameGeoAware:      &GeoAware{rules: deps.Rules, resolver: deps.Resolver},
		NameEnhanced:      &Enhanced{rules: deps.Rules, resolver: deps.Resolver},
		NameComprehensive: &Comprehensive{rules: deps.Rules, resolver: deps.Resolver},
		NameSimple:        &Simple{},
		NameKeyword:       &Keyword{},
		NameStatistical:   &Statistical{},
		NameEmergency:     &Emergency{},
	}
}
