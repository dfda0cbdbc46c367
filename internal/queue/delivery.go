package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const (
	summariesKey     = "dnrbot:summaries"
	notificationsKey = "dnrbot:notifications"
)

// Summary is a completed generation result addressed to its group.
type Summary struct {
	GroupID int64  `json:"group_id"`
	Text    string `json:"text"`
}

// Notification is an operational alert addressed to a chat.
type Notification struct {
	RecipientID int64  `json:"recipient_id"`
	Text        string `json:"text"`
}

// Pipeline carries completed work and alerts from producer processes to
// the transport-facing poller. Each channel is a single Redis list, so
// enqueue and dequeue are atomic and per-channel order is strict FIFO.
// There is no ordering guarantee across the two channels.
type Pipeline struct {
	client goredis.Cmdable
}

func NewPipeline(client goredis.Cmdable) *Pipeline {
	return &Pipeline{client: client}
}

func (p *Pipeline) PublishSummary(ctx context.Context, sum Summary) error {
	return p.publish(ctx, summariesKey, sum)
}

func (p *Pipeline) PublishNotification(ctx context.Context, n Notification) error {
	return p.publish(ctx, notificationsKey, n)
}

func (p *Pipeline) publish(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", key, err)
	}
	return nil
}

// PopSummary removes and returns the oldest pending summary, or (nil, nil)
// when the channel is empty.
func (p *Pipeline) PopSummary(ctx context.Context) (*Summary, error) {
	data, err := p.pop(ctx, summariesKey)
	if err != nil || data == nil {
		return nil, err
	}
	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &sum, nil
}

// PopNotification removes and returns the oldest pending notification, or
// (nil, nil) when the channel is empty.
func (p *Pipeline) PopNotification(ctx context.Context) (*Notification, error) {
	data, err := p.pop(ctx, notificationsKey)
	if err != nil || data == nil {
		return nil, err
	}
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &n, nil
}

func (p *Pipeline) pop(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.RPop(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("pop from %s: %w", key, err)
	}
	return data, nil
}

// PendingSummaries reports the number of undelivered summaries.
func (p *Pipeline) PendingSummaries(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, summariesKey).Result()
}
