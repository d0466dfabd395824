package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
	"github.com/andreypavlenko/jobmatch/internal/matching/store"
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
)

// TaskMatch runs the Match Orchestrator over a one-candidate/many-jobs
// pair and persists the result. §6.2's `POST /v2/match` and
// `POST /v2/find-jobs` both enqueue this task shape — find-jobs simply
// supplies a larger Jobs slice resolved from the job posting directory.
const TaskMatch = "match"

// TaskFindCandidates runs the inverse search `POST /v2/find-candidates`
// needs: one job against many candidates. The Orchestrator's Match
// pipeline is candidate-centric, so this runs it once per candidate
// (Jobs = the single job) and ranks the results by score afterward.
const TaskFindCandidates = "find_candidates"

// MatchTaskArgs is TaskMatch's Args payload.
type MatchTaskArgs struct {
	Candidate canonical.RawRecord   `json:"candidate"`
	Jobs      []canonical.RawRecord `json:"jobs"`
	Options   orchestrator.Options  `json:"options"`
}

// FindCandidatesArgs is TaskFindCandidates's Args payload.
type FindCandidatesArgs struct {
	Job        canonical.RawRecord   `json:"job"`
	Candidates []canonical.RawRecord `json:"candidates"`
	Options    orchestrator.Options  `json:"options"`
}

// CandidateMatch pairs a candidate_id with its score against the job a
// TaskFindCandidates run was scoped to.
type CandidateMatch struct {
	CandidateID string                `json:"candidate_id"`
	Result      canonical.MatchResult `json:"result"`
}

// FindCandidatesResult is TaskFindCandidates's persisted/webhook payload.
type FindCandidatesResult struct {
	Status         string           `json:"status"`
	ExecutionTimeS float64          `json:"execution_time_s"`
	Matches        []CandidateMatch `json:"matches"`
	Meta           struct {
		TotalCandidates int `json:"total_candidates"`
		Returned        int `json:"returned"`
	} `json:"meta"`
}

// Pool runs a fixed number of workers consuming QueueNames, each running
// the Orchestrator and writing through the Result Store, per §4.9.
type Pool struct {
	queue        *Queue
	orchestrator *orchestrator.Orchestrator
	results      *store.Store
	webhook      *WebhookDeliverer
	log          *logger.Logger

	queueNames []string
	jobTimeout time.Duration
	workers    int

	wg sync.WaitGroup
}

// NewPool builds a worker pool. workers is the fixed goroutine count;
// jobTimeout is the hard per-job execution timeout (default 1h, §4.9).
func NewPool(
	queue *Queue,
	orch *orchestrator.Orchestrator,
	results *store.Store,
	webhook *WebhookDeliverer,
	log *logger.Logger,
	queueNames []string,
	jobTimeout time.Duration,
	workers int,
) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = time.Hour
	}
	return &Pool{
		queue:        queue,
		orchestrator: orch,
		results:      results,
		webhook:      webhook,
		log:          log,
		queueNames:   queueNames,
		jobTimeout:   jobTimeout,
		workers:      workers,
	}
}

// Run starts the worker pool and blocks until ctx is cancelled. Each
// worker finishes the job it is currently executing before returning
// (§4.9 step 5: "on orderly shutdown, finishes the current job before
// exiting") — cancelling ctx only stops workers from picking up new work.
func (p *Pool) Run(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(id int) {
			defer p.wg.Done()
			p.loop(ctx, id)
		}(i)
	}
	p.wg.Wait()
}

func (p *Pool) loop(ctx context.Context, workerID int) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := p.queue.Dequeue(ctx, 5*time.Second, p.queueNames...)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Sugar().Errorw("dequeue failed", "worker", workerID, "error", err)
			continue
		}
		if job == nil {
			continue // poll timeout, no job available
		}

		p.process(job)
	}
}

// process runs one job to completion; it deliberately does not accept
// the pool's shutdown context so an in-flight job always finishes.
func (p *Pool) process(job *Job) {
	jobLog := p.log.WithJobID(job.ID)
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	switch job.Task {
	case TaskMatch:
		p.runMatch(ctx, jobLog, job)
	case TaskFindCandidates:
		p.runFindCandidates(ctx, jobLog, job)
	default:
		p.fail(ctx, jobLog, job, fmt.Errorf("queue: unknown task %q", job.Task))
	}
}

func (p *Pool) runMatch(ctx context.Context, jobLog *logger.Logger, job *Job) {
	var args MatchTaskArgs
	if err := json.Unmarshal(job.Args, &args); err != nil {
		p.fail(ctx, jobLog, job, fmt.Errorf("queue: decode match args: %w", err))
		return
	}

	start := time.Now()
	resp, err := p.orchestrator.Match(ctx, args.Candidate, args.Jobs, args.Options)
	if err != nil {
		p.fail(ctx, jobLog, job, err)
		return
	}

	envelope := resp.ToEnvelope(len(args.Jobs), time.Since(start))
	resultJSON, err := json.Marshal(envelope)
	if err != nil {
		p.fail(ctx, jobLog, job, fmt.Errorf("queue: encode result: %w", err))
		return
	}

	if p.results != nil {
		if err := p.results.Write(ctx, job.ID, string(StatusCompleted), resultJSON, job.Priority, time.Since(start).Milliseconds(), ""); err != nil {
			jobLog.Sugar().Warnw("result store write failed", "error", err)
		}
	}

	if err := p.queue.SetStatus(ctx, job.ID, StatusCompleted, ""); err != nil {
		jobLog.Sugar().Warnw("status update failed", "error", err)
	}

	if job.WebhookURL != "" && p.webhook != nil {
		payload := WebhookPayload{JobID: job.ID, Status: StatusCompleted, Timestamp: time.Now().UTC(), Data: resultJSON}
		if err := p.webhook.Deliver(ctx, job.WebhookURL, payload); err != nil {
			jobLog.Sugar().Warnw("webhook delivery failed, dropping", "error", err)
		}
	}
}

// runFindCandidates runs the Orchestrator once per candidate against the
// single job, ranking candidates by the resulting global score.
func (p *Pool) runFindCandidates(ctx context.Context, jobLog *logger.Logger, job *Job) {
	var args FindCandidatesArgs
	if err := json.Unmarshal(job.Args, &args); err != nil {
		p.fail(ctx, jobLog, job, fmt.Errorf("queue: decode find-candidates args: %w", err))
		return
	}

	start := time.Now()
	matches := make([]CandidateMatch, 0, len(args.Candidates))
	for _, candRaw := range args.Candidates {
		resp, err := p.orchestrator.Match(ctx, candRaw, []canonical.RawRecord{args.Job}, args.Options)
		if err != nil || len(resp.Results) == 0 {
			continue
		}
		id, _ := candRaw["id"].(string)
		matches = append(matches, CandidateMatch{CandidateID: id, Result: resp.Results[0]})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.GlobalScore > matches[j].Result.GlobalScore
	})

	result := FindCandidatesResult{Status: "success", ExecutionTimeS: time.Since(start).Seconds(), Matches: matches}
	result.Meta.TotalCandidates = len(args.Candidates)
	result.Meta.Returned = len(matches)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		p.fail(ctx, jobLog, job, fmt.Errorf("queue: encode result: %w", err))
		return
	}

	if p.results != nil {
		if err := p.results.Write(ctx, job.ID, string(StatusCompleted), resultJSON, job.Priority, time.Since(start).Milliseconds(), ""); err != nil {
			jobLog.Sugar().Warnw("result store write failed", "error", err)
		}
	}
	if err := p.queue.SetStatus(ctx, job.ID, StatusCompleted, ""); err != nil {
		jobLog.Sugar().Warnw("status update failed", "error", err)
	}
	if job.WebhookURL != "" && p.webhook != nil {
		payload := WebhookPayload{JobID: job.ID, Status: StatusCompleted, Timestamp: time.Now().UTC(), Data: resultJSON}
		if err := p.webhook.Deliver(ctx, job.WebhookURL, payload); err != nil {
			jobLog.Sugar().Warnw("webhook delivery failed, dropping", "error", err)
		}
	}
}

func (p *Pool) fail(ctx context.Context, jobLog *logger.Logger, job *Job, cause error) {
	jobLog.Sugar().Warnw("job failed", "error", cause, "retries_remaining", job.RetriesRemaining)
	if err := p.queue.Requeue(ctx, job, cause.Error()); err != nil {
		jobLog.Sugar().Errorw("requeue/dead-letter failed", "error", err)
		return
	}
	if job.RetriesRemaining <= 0 && job.WebhookURL != "" && p.webhook != nil {
		errEnvelope := orchestrator.ErrorEnvelope(cause, 0, 0)
		data, _ := json.Marshal(errEnvelope)
		payload := WebhookPayload{JobID: job.ID, Status: StatusFailed, Timestamp: time.Now().UTC(), Data: data}
		if err := p.webhook.Deliver(ctx, job.WebhookURL, payload); err != nil {
			jobLog.Sugar().Warnw("failure webhook delivery failed, dropping", "error", err)
		}
	}
}
