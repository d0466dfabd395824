package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestBroker(t *testing.T) *goredis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}

func TestEnqueueDequeueRoundTrip(t *testing.T) {
	q := New(newTestBroker(t), time.Hour, 3)
	ctx := context.Background()

	jobID, err := q.Enqueue(ctx, TaskMatch, map[string]string{"candidate": "c1"}, "matching_default", EnqueueArgs{Priority: 5})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job, err := q.Dequeue(ctx, time.Second, "matching_default")
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, jobID, job.ID)
	require.Equal(t, StatusProcessing, job.Status)
	require.Equal(t, 3, job.MaxRetries)
}

func TestDequeueReturnsNilOnTimeout(t *testing.T) {
	q := New(newTestBroker(t), time.Hour, 3)
	job, err := q.Dequeue(context.Background(), 50*time.Millisecond, "empty_queue")
	require.NoError(t, err)
	require.Nil(t, job)
}

func TestHigherPriorityJobDequeuedFirst(t *testing.T) {
	q := New(newTestBroker(t), time.Hour, 3)
	ctx := context.Background()

	lowID, err := q.Enqueue(ctx, TaskMatch, map[string]string{}, "q", EnqueueArgs{Priority: 1})
	require.NoError(t, err)
	highID, err := q.Enqueue(ctx, TaskMatch, map[string]string{}, "q", EnqueueArgs{Priority: 9})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, time.Second, "q")
	require.NoError(t, err)
	require.Equal(t, highID, job.ID)

	job, err = q.Dequeue(ctx, time.Second, "q")
	require.NoError(t, err)
	require.Equal(t, lowID, job.ID)
}

func TestRequeueRoutesToDeadLetterWhenRetriesExhausted(t *testing.T) {
	broker := newTestBroker(t)
	q := New(broker, time.Hour, 1)
	ctx := context.Background()

	jobID, err := q.Enqueue(ctx, TaskMatch, map[string]string{}, "q", EnqueueArgs{Priority: 0, MaxRetries: 1})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, time.Second, "q")
	require.NoError(t, err)
	require.Equal(t, jobID, job.ID)
	require.Equal(t, 1, job.RetriesRemaining)

	require.NoError(t, q.Requeue(ctx, job, "boom"))
	require.Equal(t, 0, job.RetriesRemaining)

	// nothing left on "q"
	empty, err := q.Dequeue(ctx, 50*time.Millisecond, "q")
	require.NoError(t, err)
	require.Nil(t, empty)

	// the job landed on the dead-letter queue instead (a list of payloads)
	dead, err := broker.LLen(ctx, DeadLetterQueue).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), dead)
}
