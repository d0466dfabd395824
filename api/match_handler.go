package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/andreypavlenko/jobmatch/domain/matchstats"
	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/platform/httpx"
	"github.com/gin-gonic/gin"
)

// Match implements `POST /match` (§6.1).
func (s *Server) Match(c *gin.Context) {
	s.runSyncMatch(c, "")
}

// Compare implements `POST /compare`: identical body, forced comparison
// mode, response carries the per-variant breakdown in `comparison_detail`.
func (s *Server) Compare(c *gin.Context) {
	s.runSyncMatch(c, "comparison")
}

func (s *Server) runSyncMatch(c *gin.Context, forceAlgorithm string) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}

	opts := req.Options.toOrchestratorOptions()
	if forceAlgorithm != "" {
		opts.Algorithm = forceAlgorithm
	}

	start := time.Now()
	resp, err := s.orchestrator.Match(c.Request.Context(), req.Candidate, req.Jobs, opts)
	elapsed := time.Since(start)
	if err != nil {
		var invalid *canonical.InvalidInputError
		status := http.StatusInternalServerError
		if errors.As(err, &invalid) {
			status = http.StatusBadRequest
		}
		httpx.RespondWithError(c, status, "MATCH_FAILED", err.Error())
		return
	}

	envelope := resp.ToEnvelope(len(req.Jobs), elapsed)
	s.recordOutcomes(envelope.Results)
	httpx.RespondWithData(c, http.StatusOK, envelope)
}

// Explain implements `POST /explain`: the Selector's rationale and
// alternatives, without running any variant's Match.
func (s *Server) Explain(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}

	candidate, err := canonical.CanonicalizeCandidate(req.Candidate)
	if err != nil {
		httpx.RespondWithError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	jobs := make([]canonical.JobPosting, 0, len(req.Jobs))
	for _, raw := range req.Jobs {
		job, err := canonical.CanonicalizeJobPosting(raw)
		if err != nil {
			httpx.RespondWithError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		jobs = append(jobs, job)
	}

	httpx.RespondWithData(c, http.StatusOK, s.selector.Explain(candidate, jobs))
}

// algorithmInfo is one entry of `GET /algorithms`'s response.
type algorithmInfo struct {
	Name         string `json:"name"`
	Selectable   bool   `json:"selectable"`
	FallbackOnly bool   `json:"fallback_only"`
}

var selectableVariants = map[variants.Name]bool{
	variants.NameSkillsCentric: true,
	variants.NameGeoAware:      true,
	variants.NameEnhanced:      true,
	variants.NameComprehensive: true,
}

// Algorithms implements `GET /algorithms`: every registered variant and
// whether a caller can select it directly via `options.algorithm`, versus
// the fallback-chain-only family (§4.8).
func (s *Server) Algorithms(c *gin.Context) {
	infos := make([]algorithmInfo, 0, len(s.registry))
	for name := range s.registry {
		selectable := selectableVariants[name]
		infos = append(infos, algorithmInfo{
			Name:         string(name),
			Selectable:   selectable,
			FallbackOnly: !selectable,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	httpx.RespondWithData(c, http.StatusOK, gin.H{"algorithms": infos})
}

// Health implements `GET /health`.
func (s *Server) Health(c *gin.Context) {
	httpx.RespondWithData(c, http.StatusOK, gin.H{
		"status":               "ok",
		"uptime_s":             time.Since(s.startedAt).Seconds(),
		"version":              s.version,
		"algorithms_available": len(s.registry),
	})
}

// recordOutcomes best-effort persists each result as a match_outcomes row
// (§5's "performance counters"); a nil stats service or a write failure
// never affects the caller-visible response.
func (s *Server) recordOutcomes(results []canonical.MatchResult) {
	if s.stats == nil || len(results) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, r := range results {
			jobID := r.JobID
			outcome := &matchstats.Outcome{
				JobPostingID:  &jobID,
				AlgorithmUsed: r.AlgorithmUsed,
				GlobalScore:   r.GlobalScore,
				Confidence:    r.Confidence,
				FallbackUsed:  r.FallbackUsed,
			}
			if err := s.stats.Record(ctx, outcome); err != nil && s.log != nil {
				s.log.Sugar().Warnw("match outcome record failed", "error", err)
			}
		}
	}()
}
