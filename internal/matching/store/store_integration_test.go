//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/store"
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// These tests stand up real Postgres and Redis containers to exercise the
// Result Store's hot/row tiers the way they behave in production, rather
// than against the Broker/HotStore/RowStore fakes the unit tests use.
func TestStore_WriteAndRead_RoundTripsThroughHotAndRowTiers(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("jobmatch_test"),
		tcpostgres.WithUsername("jobmatch"),
		tcpostgres.WithPassword("jobmatch"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://../../../migrations", dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisContainer.Terminate(ctx) })

	redisAddr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: trimRedisScheme(redisAddr)})
	t.Cleanup(func() { _ = rdb.Close() })

	log, err := logger.New("info", "console")
	require.NoError(t, err)

	s := store.New(rdb, pool, nil, time.Minute, 1<<20, log)

	resultJSON := []byte(`{"status":"success","results":[{"job_id":"j1","global_score":87}]}`)
	require.NoError(t, s.Write(ctx, "job-int-1", "completed", resultJSON, 0, 120, ""))

	got, found, err := s.Read(ctx, "job-int-1")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, string(resultJSON), string(got))

	// Evicting the hot tier must fall through to the row tier.
	require.NoError(t, rdb.Del(ctx, "match:result:job-int-1").Err())
	gotFromRow, found, err := s.Read(ctx, "job-int-1")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, string(resultJSON), string(gotFromRow))
}

func TestStore_Read_MissingJobReturnsCleanMiss(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("jobmatch_test"),
		tcpostgres.WithUsername("jobmatch"),
		tcpostgres.WithPassword("jobmatch"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://../../../migrations", dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log, err := logger.New("info", "console")
	require.NoError(t, err)

	s := store.New(nil, pool, nil, time.Minute, 1<<20, log)

	got, found, err := s.Read(ctx, "does-not-exist")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)
}

func trimRedisScheme(addr string) string {
	const scheme = "redis://"
	if len(addr) > len(scheme) && addr[:len(scheme)] == scheme {
		return addr[len(scheme):]
	}
	return addr
}
