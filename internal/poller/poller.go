// Package poller drains the delivery pipeline in the transport-facing
// process: job workers have no access to the chat transport, so completed
// summaries and operational alerts travel through Redis and are delivered
// from here.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/n-OlegS/dnrbot/internal/queue"
)

// Sender delivers drained payloads to their chats.
type Sender interface {
	SendSummary(ctx context.Context, chatID int64, text string) error
	SendNotification(ctx context.Context, chatID int64, text string) error
}

// SummaryStore caches a delivered summary on its group.
type SummaryStore interface {
	StoreResult(ctx context.Context, groupID int64, text string) error
}

type Poller struct {
	pipeline *queue.Pipeline
	sender   Sender
	results  SummaryStore
	interval time.Duration
	now      func() time.Time
}

func New(pipeline *queue.Pipeline, sender Sender, results SummaryStore, interval time.Duration) *Poller {
	return &Poller{
		pipeline: pipeline,
		sender:   sender,
		results:  results,
		interval: interval,
		now:      time.Now,
	}
}

// Run polls both channels until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("delivery poller started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("delivery poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick drains at most one entry per channel. Delivery is at-least-once in
// spirit but a popped entry that fails to send is lost; for summaries the
// user can simply re-request, so nothing is retried here.
func (p *Poller) tick(ctx context.Context) {
	sum, err := p.pipeline.PopSummary(ctx)
	if err != nil {
		slog.Error("pop summary", "error", err)
	} else if sum != nil {
		p.deliverSummary(ctx, sum)
	}

	n, err := p.pipeline.PopNotification(ctx)
	if err != nil {
		slog.Error("pop notification", "error", err)
	} else if n != nil {
		if err := p.sender.SendNotification(ctx, n.RecipientID, n.Text); err != nil {
			slog.Error("deliver notification", "recipient_id", n.RecipientID, "error", err)
		}
	}
}

func (p *Poller) deliverSummary(ctx context.Context, sum *queue.Summary) {
	text := fmt.Sprintf("#summary\n%s\n\n%s", p.now().Format("15:04"), sum.Text)
	if err := p.sender.SendSummary(ctx, sum.GroupID, text); err != nil {
		slog.Error("deliver summary", "group_id", sum.GroupID, "error", err)
		return
	}

	// Cache after delivery; a miss here is recoverable by re-requesting.
	if err := p.results.StoreResult(ctx, sum.GroupID, sum.Text); err != nil {
		slog.Error("cache summary", "group_id", sum.GroupID, "error", err)
	}
}
