package matchstats

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestRecordInsertsOutcome(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO match_outcomes").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepositoryWithPool(mock)
	err = repo.Record(context.Background(), &Outcome{AlgorithmUsed: "comprehensive", GlobalScore: 82, Confidence: 0.9})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryByAlgorithmAggregates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"algorithm_used", "n", "avg_score", "avg_confidence", "fallback_rate"}).
		AddRow("comprehensive", 10, 78.5, 0.87, 0.1)
	mock.ExpectQuery("(?s)SELECT.*FROM match_outcomes").WillReturnRows(rows)

	repo := NewPostgresRepositoryWithPool(mock)
	summaries, err := repo.SummaryByAlgorithm(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "comprehensive", summaries[0].Algorithm)
	require.Equal(t, 10, summaries[0].Count)
}
