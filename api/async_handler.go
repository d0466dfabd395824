package api

import (
	"net/http"
	"strconv"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
	"github.com/andreypavlenko/jobmatch/internal/matching/queue"
	"github.com/andreypavlenko/jobmatch/internal/platform/httpx"
	"github.com/gin-gonic/gin"
)

const defaultQueueName = "matching_default"

// AsyncMatch implements `POST /v2/match?candidate_id=…&job_id=…&with_commute_time=bool`
// (§6.2): resolve both sides from the persistence surface (§2b) and
// enqueue a single TaskMatch job.
func (s *Server) AsyncMatch(c *gin.Context) {
	candidateID := c.Query("candidate_id")
	jobID := c.Query("job_id")
	if candidateID == "" || jobID == "" {
		httpx.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "candidate_id and job_id are required")
		return
	}
	withCommuteTime, _ := strconv.ParseBool(c.DefaultQuery("with_commute_time", "false"))

	ctx := c.Request.Context()
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		httpx.RespondWithError(c, http.StatusNotFound, "CANDIDATE_NOT_FOUND", err.Error())
		return
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		httpx.RespondWithError(c, http.StatusNotFound, "JOB_NOT_FOUND", err.Error())
		return
	}

	opts := orchestrator.Options{EnableFallback: true}
	if withCommuteTime {
		opts.Algorithm = "geo"
		opts.IncludeDetails = true
	}

	args := queue.MatchTaskArgs{
		Candidate: candidate.ToRawRecord(),
		Jobs:      []canonical.RawRecord{job.ToRawRecord()},
		Options:   opts,
	}

	jobQueueID, err := s.queue.Enqueue(ctx, queue.TaskMatch, args, defaultQueueName, queue.EnqueueArgs{WebhookURL: c.Query("webhook_url")})
	if err != nil {
		httpx.RespondWithError(c, http.StatusInternalServerError, "ENQUEUE_FAILED", err.Error())
		return
	}
	httpx.RespondWithData(c, http.StatusAccepted, JobQueuedResponse{JobID: jobQueueID, Status: string(queue.StatusQueued)})
}

// AsyncFindJobs implements `POST /v2/find-jobs` (§6.2): one persisted
// candidate against a page of the job posting directory.
func (s *Server) AsyncFindJobs(c *gin.Context) {
	var req AsyncFindJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}
	limit := httpx.ClampLimit(req.Limit)

	ctx := c.Request.Context()
	candidate, err := s.candidates.GetByID(ctx, req.CandidateID)
	if err != nil {
		httpx.RespondWithError(c, http.StatusNotFound, "CANDIDATE_NOT_FOUND", err.Error())
		return
	}
	postings, _, err := s.jobs.List(ctx, limit, req.Offset)
	if err != nil {
		httpx.RespondWithError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	jobsRaw := make([]canonical.RawRecord, len(postings))
	for i, p := range postings {
		jobsRaw[i] = p.ToRawRecord()
	}

	args := queue.MatchTaskArgs{
		Candidate: candidate.ToRawRecord(),
		Jobs:      jobsRaw,
		Options:   req.Options.toOrchestratorOptions(),
	}

	jobQueueID, err := s.queue.Enqueue(ctx, queue.TaskMatch, args, defaultQueueName, queue.EnqueueArgs{WebhookURL: req.WebhookURL})
	if err != nil {
		httpx.RespondWithError(c, http.StatusInternalServerError, "ENQUEUE_FAILED", err.Error())
		return
	}
	httpx.RespondWithData(c, http.StatusAccepted, JobQueuedResponse{JobID: jobQueueID, Status: string(queue.StatusQueued)})
}

// AsyncFindCandidates implements `POST /v2/find-candidates` (§6.2): one
// persisted job posting against a page of the candidate directory.
func (s *Server) AsyncFindCandidates(c *gin.Context) {
	var req AsyncFindCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}
	limit := httpx.ClampLimit(req.Limit)

	ctx := c.Request.Context()
	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		httpx.RespondWithError(c, http.StatusNotFound, "JOB_NOT_FOUND", err.Error())
		return
	}
	profiles, _, err := s.candidates.List(ctx, limit, req.Offset)
	if err != nil {
		httpx.RespondWithError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	candidatesRaw := make([]canonical.RawRecord, len(profiles))
	for i, p := range profiles {
		candidatesRaw[i] = p.ToRawRecord()
	}

	args := queue.FindCandidatesArgs{
		Job:        job.ToRawRecord(),
		Candidates: candidatesRaw,
		Options:    req.Options.toOrchestratorOptions(),
	}

	jobQueueID, err := s.queue.Enqueue(ctx, queue.TaskFindCandidates, args, defaultQueueName, queue.EnqueueArgs{WebhookURL: req.WebhookURL})
	if err != nil {
		httpx.RespondWithError(c, http.StatusInternalServerError, "ENQUEUE_FAILED", err.Error())
		return
	}
	httpx.RespondWithData(c, http.StatusAccepted, JobQueuedResponse{JobID: jobQueueID, Status: string(queue.StatusQueued)})
}
