// Package orchestrator implements the Match Orchestrator (C7): the public
// match() pipeline that canonicalizes input, resolves weights, selects and
// executes an algorithm variant (guarded by the Resilience Layer's
// fallback chain), and assembles the final response envelope.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/config"
	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/resilience"
	"github.com/andreypavlenko/jobmatch/internal/matching/selector"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
)

// Options are the per-request overrides §4.7 enumerates.
type Options struct {
	Algorithm           string // auto, skills, geo, enhanced, comprehensive, comparison
	Limit               int
	MinScore            float64
	MinScoreSet         bool
	IncludeDetails      bool
	IncludeExplanations bool
	TrackPerformance    bool
	EnableFallback      bool
}

// Meta summarizes a match run for the response envelope.
type Meta struct {
	Count           int
	MeanScore       float64
	MeanConfidence  float64
	ChosenAlgorithm string
	ExecutionTime   time.Duration
}

// Response is the Match Orchestrator's public output, per §6.1.
type Response struct {
	Results          []canonical.MatchResult
	Meta             Meta
	Status           string // "ok" or "fallback"
	OriginalError    string
	ComparisonDetail map[variants.Name][]canonical.MatchResult
}

// Orchestrator wires the registry, selector, base weights, and resilience
// collaborators built by cmd/api and cmd/worker into the §4.7 pipeline.
type Orchestrator struct {
	registry map[variants.Name]variants.Variant
	selector *selector.Selector
	base     canonical.WeightVector
	reporter *resilience.Reporter
	log      *logger.Logger
	cfg      config.MatchConfig
}

// New builds an Orchestrator.
func New(registry map[variants.Name]variants.Variant, sel *selector.Selector, base canonical.WeightVector, reporter *resilience.Reporter, log *logger.Logger, cfg config.MatchConfig) *Orchestrator {
	return &Orchestrator{registry: registry, selector: sel, base: base, reporter: reporter, log: log, cfg: cfg}
}

// Match runs the full §4.7 pipeline.
func (o *Orchestrator) Match(ctx context.Context, candidateRaw canonical.RawRecord, jobsRaw []canonical.RawRecord, opts Options) (Response, error) {
	start := time.Now()

	// Step 1: canonicalize; InvalidInput short-circuits before any variant runs.
	candidate, err := canonical.CanonicalizeCandidate(candidateRaw)
	if err != nil {
		return Response{}, err
	}
	jobs := make([]canonical.JobPosting, 0, len(jobsRaw))
	for _, raw := range jobsRaw {
		job, err := canonical.CanonicalizeJobPosting(raw)
		if err != nil {
			return Response{}, err
		}
		jobs = append(jobs, job)
	}

	// Step 2: resolve weights.
	w := weights.Resolve(o.base, candidate.Priorities)

	limit := opts.Limit
	if limit <= 0 {
		limit = o.cfg.DefaultLimit
	}
	if o.cfg.LimitCap > 0 && limit > o.cfg.LimitCap {
		limit = o.cfg.LimitCap
	}
	minScore := o.cfg.DefaultMinScore
	if opts.MinScoreSet {
		minScore = opts.MinScore
	}

	var (
		results          []canonical.MatchResult
		chosenAlgorithm  string
		fallbackUsed     bool
		originalErr      error
		comparisonDetail map[variants.Name][]canonical.MatchResult
		isComparison     bool
	)

	// Step 3 & 4: select and execute.
	if opts.Algorithm == "comparison" {
		isComparison = true
		chosenAlgorithm = "comparison"
		results, comparisonDetail, err = o.selector.RunComparison(ctx, candidate, jobs, w, 0)
		if err != nil {
			return Response{}, err
		}
	} else {
		chosen := o.forcedVariant(opts.Algorithm)
		var rule selector.Rule
		if chosen == nil {
			chosen, rule = o.selector.Select(candidate, jobs)
		}
		chosenAlgorithm = string(chosen.Name())
		if o.log != nil {
			o.log.WithAlgorithm(chosenAlgorithm).Debug(string(rule))
		}

		var entryUsed resilience.FallbackEntryPoint
		results, entryUsed, originalErr = o.executeWithFallback(ctx, chosen, candidate, jobs, w, limit, opts.EnableFallback)
		if originalErr != nil {
			fallbackUsed = true
			if o.reporter != nil {
				o.reporter.Report(resilience.FaultAlgorithm, originalErr, map[string]string{"algorithm": chosenAlgorithm, "fallback_entry": string(entryUsed)})
			}
		}
	}

	// Step 5: post-process (clamp score, compute confidence).
	for i := range results {
		results[i].GlobalScore = clampPercent(results[i].GlobalScore)
		results[i].Confidence = computeConfidence(results[i], opts, isComparison)
		if !opts.IncludeDetails {
			results[i].PerDimension = nil
		}
		if !opts.IncludeExplanations {
			stripExplanations(results[i].PerDimension)
		}
	}

	// Step 6: filter by min_score (on the [0,1] confidence-free score scale).
	filtered := results[:0]
	for _, r := range results {
		if float64(r.GlobalScore)/100.0 >= minScore {
			filtered = append(filtered, r)
		}
	}
	results = filtered

	// Step 7: sort by (global_score desc, confidence desc), take first limit.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].GlobalScore != results[j].GlobalScore {
			return results[i].GlobalScore > results[j].GlobalScore
		}
		return results[i].Confidence > results[j].Confidence
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	// Step 8: assemble meta.
	meta := Meta{
		Count:           len(results),
		ChosenAlgorithm: chosenAlgorithm,
		ExecutionTime:   time.Since(start),
	}
	if len(results) > 0 {
		var sumScore, sumConfidence float64
		for _, r := range results {
			sumScore += float64(r.GlobalScore)
			sumConfidence += r.Confidence
		}
		meta.MeanScore = sumScore / float64(len(results))
		meta.MeanConfidence = sumConfidence / float64(len(results))
	}

	// Step 9: fallback status flip.
	status := "ok"
	originalErrText := ""
	if fallbackUsed {
		status = "fallback"
		originalErrText = originalErr.Error()
	}

	return Response{
		Results:          results,
		Meta:             meta,
		Status:           status,
		OriginalError:    originalErrText,
		ComparisonDetail: comparisonDetail,
	}, nil
}

func (o *Orchestrator) forcedVariant(algorithm string) variants.Variant {
	switch algorithm {
	case "skills":
		return o.registry[variants.NameSkillsCentric]
	case "geo":
		return o.registry[variants.NameGeoAware]
	case "enhanced":
		return o.registry[variants.NameEnhanced]
	case "comprehensive":
		return o.registry[variants.NameComprehensive]
	default:
		return nil
	}
}

// executeWithFallback runs the chosen variant, recovering a panic (a Go
// variant's analogue of the Python original raising mid-match) and, when
// enableFallback is set, walking the §4.8 degraded-variant chain starting
// at the entry point the error class selects. It returns the results, the
// fallback entry point actually used (empty if the primary variant
// succeeded), and the original error if one occurred.
func (o *Orchestrator) executeWithFallback(ctx context.Context, chosen variants.Variant, candidate canonical.Candidate, jobs []canonical.JobPosting, w canonical.WeightVector, limit int, enableFallback bool) ([]canonical.MatchResult, resilience.FallbackEntryPoint, error) {
	results, err := safeMatch(chosen, ctx, candidate, jobs, w, limit)
	if err == nil {
		return results, "", nil
	}
	if !enableFallback {
		return nil, "", err
	}

	entry := resilience.EntryPointForError(err)
	for _, step := range resilience.Chain(entry) {
		degraded := o.registry[variants.Name(step)]
		if degraded == nil {
			continue
		}
		results, stepErr := safeMatch(degraded, ctx, candidate, jobs, w, limit)
		if stepErr == nil {
			applyFallbackConfidence(results, step)
			return results, step, err
		}
	}
	return nil, entry, err
}

// safeMatch recovers a panicking variant and turns it into an error the
// Resilience Layer's error-class taxonomy can route on.
func safeMatch(v variants.Variant, ctx context.Context, candidate canonical.Candidate, jobs []canonical.JobPosting, w canonical.WeightVector, limit int) (results []canonical.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("variant %s panicked: %v", v.Name(), r)
		}
	}()
	results = v.Match(ctx, candidate, jobs, w, limit)
	return results, nil
}

// applyFallbackConfidence stamps each degraded result's confidence with the
// §4.8 multiplier for the entry point that produced it, ahead of the
// general post-process step (which otherwise only adds bonuses).
func applyFallbackConfidence(results []canonical.MatchResult, entry resilience.FallbackEntryPoint) {
	mult := resilience.ConfidenceMultiplier(entry)
	if entry == resilience.EntryEmergency {
		for i := range results {
			results[i].Confidence = resilience.EmergencyConfidence
		}
		return
	}
	for i := range results {
		results[i].Confidence = float64(results[i].GlobalScore) / 100.0 * mult
	}
}

// computeConfidence implements §4.7 step 5's confidence formula. Results
// already stamped by applyFallbackConfidence (FallbackUsed) keep their
// fallback-scaled confidence as the base instead of recomputing from
// global_score/100, since the multiplier IS the confidence signal for a
// degraded variant.
func computeConfidence(r canonical.MatchResult, opts Options, isComparison bool) float64 {
	base := r.Confidence
	if !r.FallbackUsed {
		base = float64(r.GlobalScore) / 100.0
	}
	if opts.IncludeDetails {
		base += 0.1
	}
	if opts.IncludeExplanations {
		base += 0.05
	}
	if isComparison {
		base += 0.05
	}
	if base > 1.0 {
		base = 1.0
	}
	return base
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func stripExplanations(dims map[canonical.Dimension]canonical.DimensionScore) {
	for dim, s := range dims {
		s.Explanation = ""
		dims[dim] = s
	}
}
