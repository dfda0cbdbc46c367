package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestJobQueueRoundTrip(t *testing.T) {
	q := NewJobQueue(newTestClient(t))
	ctx := context.Background()

	submitted := Job{ID: "job-1", GroupID: -100123, Prompt: "alice: hi\nbob: hello"}
	require.NoError(t, q.Submit(ctx, submitted))

	job, err := q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, submitted, *job)
}

func TestJobQueueFIFO(t *testing.T) {
	q := NewJobQueue(newTestClient(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Submit(ctx, Job{ID: id, GroupID: 1}))
	}

	for _, want := range []string{"a", "b", "c"} {
		job, err := q.Next(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, job)
		require.Equal(t, want, job.ID)
	}
}

func TestJobQueueEmptyPrompt(t *testing.T) {
	q := NewJobQueue(newTestClient(t))
	ctx := context.Background()

	// A zero-message window still produces a job; the generation step
	// owns the empty-corpus case.
	require.NoError(t, q.Submit(ctx, Job{ID: "empty", GroupID: 7, Prompt: ""}))

	job, err := q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Empty(t, job.Prompt)
}

func TestJobQueuePending(t *testing.T) {
	q := NewJobQueue(newTestClient(t))
	ctx := context.Background()

	n, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, q.Submit(ctx, Job{ID: "x", GroupID: 1}))
	n, err = q.Pending(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
