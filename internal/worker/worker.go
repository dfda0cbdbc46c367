package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/n-OlegS/dnrbot/internal/config"
	"github.com/n-OlegS/dnrbot/internal/queue"
)

// Summarizer produces a summary from a concatenated chat log.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Worker consumes generation jobs and publishes results on the delivery
// pipeline. It runs out-of-process from the bot and talks only to Redis,
// so it needs no inbound connectivity.
type Worker struct {
	jobs        *queue.JobQueue
	pipeline    *queue.Pipeline
	summarizer  Summarizer
	adminChatID int64
}

func New(jobs *queue.JobQueue, pipeline *queue.Pipeline, summarizer Summarizer, adminChatID int64) *Worker {
	return &Worker{
		jobs:        jobs,
		pipeline:    pipeline,
		summarizer:  summarizer,
		adminChatID: adminChatID,
	}
}

// Run processes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("worker started")
	for {
		job, err := w.jobs.Next(ctx, config.JobPopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("worker stopped")
				return
			}
			slog.Error("pop job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}
		w.process(ctx, job)
	}
}

// process runs one job to completion. A failed generation is dropped after
// alerting the operator: the admission cooldown is already spent and is
// deliberately not refunded, so retrying here would only delay the queue.
func (w *Worker) process(ctx context.Context, job *queue.Job) {
	slog.Info("processing job", "job_id", job.ID, "group_id", job.GroupID, "prompt_len", len(job.Prompt))

	sctx, cancel := context.WithTimeout(ctx, config.SummaryTimeout)
	defer cancel()

	text, err := w.summarizer.Summarize(sctx, job.Prompt)
	if err != nil {
		slog.Error("summary generation failed", "job_id", job.ID, "group_id", job.GroupID, "error", err)
		w.alert(ctx, fmt.Sprintf("Summary job %s for group %d failed: %v", job.ID, job.GroupID, err))
		return
	}

	sum := queue.Summary{GroupID: job.GroupID, Text: text}
	if err := w.pipeline.PublishSummary(ctx, sum); err != nil {
		slog.Error("publish summary", "job_id", job.ID, "group_id", job.GroupID, "error", err)
		return
	}
	slog.Info("summary published", "job_id", job.ID, "group_id", job.GroupID, "len", len(text))
}

func (w *Worker) alert(ctx context.Context, text string) {
	if w.adminChatID == 0 {
		return
	}
	n := queue.Notification{RecipientID: w.adminChatID, Text: text}
	if err := w.pipeline.PublishNotification(ctx, n); err != nil {
		slog.Error("publish alert", "error", err)
	}
}
