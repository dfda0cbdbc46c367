package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const jobsKey = "dnrbot:jobs"

// Job is one unit of generation work carried from admission to the worker.
type Job struct {
	ID      string `json:"id"`
	GroupID int64  `json:"group_id"`
	Prompt  string `json:"prompt"`
}

// JobQueue is the durable work queue between the bot and worker processes.
// Jobs are LPUSHed by the producer and BRPOPed by the worker, so each job
// is handed to exactly one consumer and order is FIFO.
type JobQueue struct {
	client goredis.Cmdable
}

func NewJobQueue(client goredis.Cmdable) *JobQueue {
	return &JobQueue{client: client}
}

// Submit enqueues a job. No result is observed synchronously.
func (q *JobQueue) Submit(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, jobsKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

// Next blocks up to timeout for the next job. Returns (nil, nil) when the
// timeout elapses with nothing queued.
func (q *JobQueue) Next(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.client.BRPop(ctx, timeout, jobsKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("pop job: %w", err)
	}

	// BRPop returns [key, value].
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Pending reports the number of queued jobs.
func (q *JobQueue) Pending(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, jobsKey).Result()
}
