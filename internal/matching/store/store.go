// Package store implements the Result Store (C10): a three-tier
// hot (Redis)/row (Postgres)/blob (S3) write-through cache for completed
// match job results, written together on completion and read in
// hot-then-row-then-blob order.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	goredis "github.com/redis/go-redis/v9"

	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
)

// HotStore is the subset of *redis.Client (go-redis) the hot tier needs;
// satisfied directly by internal/platform/redis.Client and by a
// miniredis/goredis test client alike.
type HotStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// RowStore is the subset of *pgxpool.Pool the row tier needs; satisfied by
// internal/platform/postgres.Client.Pool and by pgxmock.PgxPoolIface.
type RowStore interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// BlobStore is the subset of *storage.S3Client the blob tier needs.
type BlobStore interface {
	PutObjectBody(ctx context.Context, key, contentType string, body []byte) error
	GetObjectBody(ctx context.Context, key string) ([]byte, error)
}

// Store composes the three tiers §4.10 names.
type Store struct {
	hot    HotStore
	row    RowStore
	blob   BlobStore
	hotTTL time.Duration

	largeResultThresholdBytes int

	log *logger.Logger
}

// New builds a Store. Any tier left nil is simply skipped on write and
// read — e.g. in environments with no S3 configured, the oversize-result
// path is unavailable and large payloads stay in the row tier as-is.
func New(hot HotStore, row RowStore, blob BlobStore, hotTTL time.Duration, largeResultThresholdBytes int, log *logger.Logger) *Store {
	return &Store{hot: hot, row: row, blob: blob, hotTTL: hotTTL, largeResultThresholdBytes: largeResultThresholdBytes, log: log}
}

func hotKey(jobID string) string  { return "match:result:" + jobID }
func blobKey(jobID string) string { return "results/" + jobID + ".json" }

// Write persists a completed (or failed) job's result across all three
// tiers, best-effort: a single tier's failure is logged, not propagated,
// as long as at least one tier succeeds (§4.10).
func (s *Store) Write(ctx context.Context, jobID, status string, resultJSON []byte, priority int, processingTimeMS int64, errText string) error {
	var anySucceeded bool

	if s.hot != nil {
		if err := s.hot.Set(ctx, hotKey(jobID), resultJSON, s.hotTTL).Err(); err != nil {
			s.logError("hot tier write failed", jobID, err)
		} else {
			anySucceeded = true
		}
	}

	rowResult := resultJSON
	filePath := ""
	if s.blob != nil && len(resultJSON) > s.largeResultThresholdBytes {
		key := blobKey(jobID)
		if err := s.blob.PutObjectBody(ctx, key, "application/json", resultJSON); err != nil {
			s.logError("blob tier write failed", jobID, err)
		} else {
			filePath = key
			rowResult = nil
			anySucceeded = true
		}
	}

	if s.row != nil {
		if err := s.writeRow(ctx, jobID, status, rowResult, filePath, priority, processingTimeMS, errText); err != nil {
			s.logError("row tier write failed", jobID, err)
		} else {
			anySucceeded = true
		}
	}

	if !anySucceeded {
		return errAllTiersFailed(jobID)
	}
	return nil
}

func (s *Store) writeRow(ctx context.Context, jobID, status string, resultJSON []byte, filePath string, priority int, processingTimeMS int64, errText string) error {
	const q = `
		INSERT INTO match_jobs (job_id, status, result_json, file_path, priority, processing_time_ms, error, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			status = EXCLUDED.status,
			result_json = EXCLUDED.result_json,
			file_path = EXCLUDED.file_path,
			priority = EXCLUDED.priority,
			processing_time_ms = EXCLUDED.processing_time_ms,
			error = EXCLUDED.error,
			updated_at = now()`
	var resultArg interface{}
	if resultJSON != nil {
		resultArg = resultJSON
	}
	_, err := s.row.Exec(ctx, q, jobID, status, resultArg, filePath, priority, processingTimeMS, errText)
	return err
}

// Read looks up a job's result in hot-then-row-then-blob order, per §4.10.
// A Blob hit repopulates the hot tier. Returns (nil, false, nil) on a clean
// miss across all tiers.
func (s *Store) Read(ctx context.Context, jobID string) ([]byte, bool, error) {
	if s.hot != nil {
		val, err := s.hot.Get(ctx, hotKey(jobID)).Bytes()
		if err == nil {
			return val, true, nil
		}
	}

	if s.row == nil {
		return nil, false, nil
	}

	var resultJSON []byte
	var filePath *string
	const q = `SELECT result_json, file_path FROM match_jobs WHERE job_id = $1`
	err := s.row.QueryRow(ctx, q, jobID).Scan(&resultJSON, &filePath)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if resultJSON != nil {
		return resultJSON, true, nil
	}
	if filePath == nil || *filePath == "" || s.blob == nil {
		return nil, false, nil
	}

	blobBytes, err := s.blob.GetObjectBody(ctx, *filePath)
	if err != nil {
		return nil, false, err
	}
	if s.hot != nil {
		_ = s.hot.Set(ctx, hotKey(jobID), blobBytes, s.hotTTL).Err()
	}
	return blobBytes, true, nil
}

func (s *Store) logError(msg, jobID string, err error) {
	if s.log != nil {
		s.log.WithJobID(jobID).Sugar().Warnw(msg, "error", err)
	}
}

type tierFailureError struct{ jobID string }

func (e *tierFailureError) Error() string {
	return "all result store tiers failed for job " + e.jobID
}

func errAllTiersFailed(jobID string) error { return &tierFailureError{jobID: jobID} }
