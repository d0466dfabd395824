package api

import (
	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
)

// OptionsRequest is §6.1's `options` object. MinScore is a pointer so a
// caller omitting it gets config.MatchConfig.DefaultMinScore rather than
// the zero value.
type OptionsRequest struct {
	Algorithm        string   `json:"algorithm"`
	Limit            int      `json:"limit"`
	MinScore         *float64 `json:"min_score"`
	Details          bool     `json:"details"`
	Explanations     bool     `json:"explanations"`
	EnableFallback   *bool    `json:"enable_fallback"`
	TrackPerformance bool     `json:"track_performance"`
}

func (o OptionsRequest) toOrchestratorOptions() orchestrator.Options {
	opts := orchestrator.Options{
		Algorithm:           o.Algorithm,
		Limit:               o.Limit,
		IncludeDetails:      o.Details,
		IncludeExplanations: o.Explanations,
		TrackPerformance:    o.TrackPerformance,
		EnableFallback:      true,
	}
	if o.MinScore != nil {
		opts.MinScore = *o.MinScore
		opts.MinScoreSet = true
	}
	if o.EnableFallback != nil {
		opts.EnableFallback = *o.EnableFallback
	}
	return opts
}

// MatchRequest is §6.1's `POST /match`/`POST /compare` body.
type MatchRequest struct {
	Candidate canonical.RawRecord   `json:"candidate" binding:"required"`
	Jobs      []canonical.RawRecord `json:"jobs" binding:"required"`
	Options   OptionsRequest        `json:"options"`
}

// AsyncFindJobsRequest is §6.2's `POST /v2/find-jobs` body: search every
// known job posting (paginated) against one persisted candidate.
type AsyncFindJobsRequest struct {
	CandidateID string         `json:"candidate_id" binding:"required"`
	Limit       int            `json:"limit"`
	Offset      int            `json:"offset"`
	WebhookURL  string         `json:"webhook_url"`
	Options     OptionsRequest `json:"options"`
}

// AsyncFindCandidatesRequest is §6.2's `POST /v2/find-candidates` body:
// search every known candidate profile (paginated) against one persisted
// job posting.
type AsyncFindCandidatesRequest struct {
	JobID      string         `json:"job_id" binding:"required"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
	WebhookURL string         `json:"webhook_url"`
	Options    OptionsRequest `json:"options"`
}

// JobQueuedResponse is the §6.2 `{job_id, status}` acknowledgement.
type JobQueuedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
