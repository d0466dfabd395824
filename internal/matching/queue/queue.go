// Package queue implements the Job Queue & Workers (C9): a Redis-backed
// priority queue that accepts match requests for the async API surface,
// dispatches them to a worker pool, and routes exhausted jobs to a
// dead-letter queue.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DeadLetterQueue is the name §4.9 gives the queue holding jobs that
// exhausted their retries.
const DeadLetterQueue = "matching_failed"

// Broker is the subset of *redis.Client the queue needs; satisfied by
// internal/platform/redis.Client and by a miniredis-backed test client.
type Broker interface {
	ZAdd(ctx context.Context, key string, members ...goredis.Z) *goredis.IntCmd
	BZPopMax(ctx context.Context, timeout time.Duration, keys ...string) *goredis.ZWithKeyCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	LPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Job is a single unit of queued work: the `enqueue(task, args, queue,
// job_id?, meta, priority)` contract §4.9 names.
type Job struct {
	ID               string
	Task             string
	Queue            string
	Args             json.RawMessage
	Meta             map[string]string
	Priority         int
	Status           Status
	WebhookURL       string
	RetriesRemaining int
	MaxRetries       int
	CreatedAt        time.Time
}

func jobKey(id string) string { return "queue:job:" + id }

// Queue wraps a Broker with the enqueue/dequeue/status contract.
type Queue struct {
	broker     Broker
	resultTTL  time.Duration
	maxRetries int
}

// New builds a Queue. resultTTL bounds how long a job's metadata hash
// survives in Redis (default 24h per §4.9); maxRetries seeds new jobs'
// retry budget (default 3) when the caller doesn't override it.
func New(broker Broker, resultTTL time.Duration, maxRetries int) *Queue {
	return &Queue{broker: broker, resultTTL: resultTTL, maxRetries: maxRetries}
}

// EnqueueArgs bundles Enqueue's optional fields.
type EnqueueArgs struct {
	JobID      string // generated if empty
	Meta       map[string]string
	Priority   int
	WebhookURL string
	MaxRetries int // 0 means "use the queue default"
}

// Enqueue pushes a new job onto queueName's priority set and writes its
// metadata hash, returning the job id.
func (q *Queue) Enqueue(ctx context.Context, task string, args interface{}, queueName string, opts EnqueueArgs) (string, error) {
	jobID := opts.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("queue: marshal args: %w", err)
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = q.maxRetries
	}

	metaJSON, err := json.Marshal(opts.Meta)
	if err != nil {
		return "", fmt.Errorf("queue: marshal meta: %w", err)
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"id":                jobID,
		"task":              task,
		"queue":             queueName,
		"args":              string(argsJSON),
		"meta":              string(metaJSON),
		"priority":          opts.Priority,
		"status":            string(StatusQueued),
		"webhook_url":       opts.WebhookURL,
		"retries_remaining": maxRetries,
		"max_retries":       maxRetries,
		"created_at":        now.Format(time.RFC3339Nano),
	}

	if err := q.broker.HSet(ctx, jobKey(jobID), flatten(fields)...).Err(); err != nil {
		return "", fmt.Errorf("queue: write job metadata: %w", err)
	}
	if err := q.broker.Expire(ctx, jobKey(jobID), q.resultTTL).Err(); err != nil {
		return "", fmt.Errorf("queue: set job ttl: %w", err)
	}
	if err := q.broker.ZAdd(ctx, queueName, goredis.Z{Score: float64(opts.Priority), Member: jobID}).Err(); err != nil {
		return "", fmt.Errorf("queue: push job: %w", err)
	}

	return jobID, nil
}

// Dequeue blocks (up to timeout) for the highest-priority job across
// queueNames, loads its metadata, and marks it processing.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration, queueNames ...string) (*Job, error) {
	res, err := q.broker.BZPopMax(ctx, timeout, queueNames...).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	jobID, ok := res.Member.(string)
	if !ok {
		return nil, fmt.Errorf("queue: unexpected job member type %T", res.Member)
	}

	job, err := q.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.Status = StatusProcessing
	if err := q.SetStatus(ctx, jobID, StatusProcessing, ""); err != nil {
		return nil, err
	}
	return job, nil
}

func (q *Queue) load(ctx context.Context, jobID string) (*Job, error) {
	fields, err := q.broker.HGetAll(ctx, jobKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("queue: read job metadata: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("queue: job %s metadata expired or missing", jobID)
	}

	var meta map[string]string
	_ = json.Unmarshal([]byte(fields["meta"]), &meta)

	priority, _ := parseInt(fields["priority"])
	retries, _ := parseInt(fields["retries_remaining"])
	maxRetries, _ := parseInt(fields["max_retries"])
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])

	return &Job{
		ID:               jobID,
		Task:             fields["task"],
		Queue:            fields["queue"],
		Args:             json.RawMessage(fields["args"]),
		Meta:             meta,
		Priority:         priority,
		Status:           Status(fields["status"]),
		WebhookURL:       fields["webhook_url"],
		RetriesRemaining: retries,
		MaxRetries:       maxRetries,
		CreatedAt:        createdAt,
	}, nil
}

// SetStatus updates a job's status field (and error text, if any).
func (q *Queue) SetStatus(ctx context.Context, jobID string, status Status, errText string) error {
	fields := map[string]interface{}{"status": string(status)}
	if errText != "" {
		fields["error"] = errText
	}
	return q.broker.HSet(ctx, jobKey(jobID), flatten(fields)...).Err()
}

// Requeue decrements a job's retry budget and, if budget remains, pushes
// it back onto its original queue; otherwise it is routed to the DLQ and
// marked failed, per §4.9 step 4.
func (q *Queue) Requeue(ctx context.Context, job *Job, errText string) error {
	job.RetriesRemaining--
	if err := q.broker.HSet(ctx, jobKey(job.ID), "retries_remaining", job.RetriesRemaining, "error", errText).Err(); err != nil {
		return err
	}

	if job.RetriesRemaining > 0 {
		if err := q.SetStatus(ctx, job.ID, StatusQueued, errText); err != nil {
			return err
		}
		return q.broker.ZAdd(ctx, job.Queue, goredis.Z{Score: float64(job.Priority), Member: job.ID}).Err()
	}

	if err := q.SetStatus(ctx, job.ID, StatusFailed, errText); err != nil {
		return err
	}
	payload, _ := json.Marshal(job)
	return q.broker.LPush(ctx, DeadLetterQueue, payload).Err()
}

func flatten(m map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(m)*2)
	for k, v := range m {
		out = append(out, k, v)
	}
	return out
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
