package matchstats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool is the subset of *pgxpool.Pool the repository needs, matching the
// teacher's modules/analytics/repository.DBPool pattern so pgxmock can
// stand in for tests without a Query/QueryRow/Exec trio mismatch.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresRepository implements Repository against match_outcomes.
type PostgresRepository struct {
	pool DBPool
}

// NewPostgresRepository builds a repository bound to a live pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// NewPostgresRepositoryWithPool builds a repository over an arbitrary DBPool.
func NewPostgresRepositoryWithPool(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts one outcome row; the API server's synchronous match
// handlers call it once per returned result, win or fallback. The queue
// worker does not record outcomes.
func (r *PostgresRepository) Record(ctx context.Context, o *Outcome) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO match_outcomes (job_posting_id, algorithm_used, global_score, confidence, fallback_used, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, q, o.JobPostingID, o.AlgorithmUsed, o.GlobalScore, o.Confidence, o.FallbackUsed, o.RecordedAt)
	return err
}

// SummaryByAlgorithm aggregates outcomes recorded since the given time,
// grouped by algorithm — the queryable counterpart to §5's in-process
// performance counters.
func (r *PostgresRepository) SummaryByAlgorithm(ctx context.Context, since time.Time) ([]AlgorithmSummary, error) {
	const q = `
		SELECT
			algorithm_used,
			COUNT(*) AS n,
			AVG(global_score) AS avg_score,
			AVG(confidence) AS avg_confidence,
			AVG(CASE WHEN fallback_used THEN 1 ELSE 0 END) AS fallback_rate
		FROM match_outcomes
		WHERE recorded_at >= $1
		GROUP BY algorithm_used
		ORDER BY algorithm_used`

	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlgorithmSummary
	for rows.Next() {
		var s AlgorithmSummary
		if err := rows.Scan(&s.Algorithm, &s.Count, &s.AvgScore, &s.AvgConfidence, &s.FallbackRate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
