package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/n-OlegS/dnrbot/internal/queue"
)

type sent struct {
	chatID int64
	text   string
}

type fakeSender struct {
	summaries     []sent
	notifications []sent
	failSummary   bool
}

func (f *fakeSender) SendSummary(_ context.Context, chatID int64, text string) error {
	if f.failSummary {
		return errors.New("chat unreachable")
	}
	f.summaries = append(f.summaries, sent{chatID, text})
	return nil
}

func (f *fakeSender) SendNotification(_ context.Context, chatID int64, text string) error {
	f.notifications = append(f.notifications, sent{chatID, text})
	return nil
}

type fakeResults struct {
	cached map[int64]string
}

func (f *fakeResults) StoreResult(_ context.Context, groupID int64, text string) error {
	if f.cached == nil {
		f.cached = make(map[int64]string)
	}
	f.cached[groupID] = text
	return nil
}

func newTestPoller(t *testing.T, sender *fakeSender, results *fakeResults) (*Poller, *queue.Pipeline) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	pipeline := queue.NewPipeline(client)
	p := New(pipeline, sender, results, time.Second)
	p.now = func() time.Time { return time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC) }
	return p, pipeline
}

func TestTickDeliversAndCachesSummary(t *testing.T) {
	sender := &fakeSender{}
	results := &fakeResults{}
	p, pipeline := newTestPoller(t, sender, results)
	ctx := context.Background()

	require.NoError(t, pipeline.PublishSummary(ctx, queue.Summary{GroupID: -100, Text: "the gist"}))
	p.tick(ctx)

	require.Len(t, sender.summaries, 1)
	require.EqualValues(t, -100, sender.summaries[0].chatID)
	require.Equal(t, "#summary\n09:30\n\nthe gist", sender.summaries[0].text)
	require.Equal(t, "the gist", results.cached[-100], "cache holds the raw text")
}

func TestTickPreservesPublishOrder(t *testing.T) {
	sender := &fakeSender{}
	p, pipeline := newTestPoller(t, sender, &fakeResults{})
	ctx := context.Background()

	require.NoError(t, pipeline.PublishSummary(ctx, queue.Summary{GroupID: 1, Text: "A"}))
	require.NoError(t, pipeline.PublishSummary(ctx, queue.Summary{GroupID: 2, Text: "B"}))

	p.tick(ctx)
	p.tick(ctx)

	require.Len(t, sender.summaries, 2)
	require.Contains(t, sender.summaries[0].text, "A")
	require.Contains(t, sender.summaries[1].text, "B")
}

func TestTickDeliversNotifications(t *testing.T) {
	sender := &fakeSender{}
	p, pipeline := newTestPoller(t, sender, &fakeResults{})
	ctx := context.Background()

	require.NoError(t, pipeline.PublishNotification(ctx, queue.Notification{RecipientID: 777, Text: "suspended"}))
	p.tick(ctx)

	require.Len(t, sender.notifications, 1)
	require.EqualValues(t, 777, sender.notifications[0].chatID)
	require.Equal(t, "suspended", sender.notifications[0].text)
}

func TestTickEmptyChannelsIsNoop(t *testing.T) {
	sender := &fakeSender{}
	results := &fakeResults{}
	p, _ := newTestPoller(t, sender, results)

	p.tick(context.Background())

	require.Empty(t, sender.summaries)
	require.Empty(t, sender.notifications)
	require.Empty(t, results.cached)
}

func TestTickFailedSendSkipsCache(t *testing.T) {
	sender := &fakeSender{failSummary: true}
	results := &fakeResults{}
	p, pipeline := newTestPoller(t, sender, results)
	ctx := context.Background()

	require.NoError(t, pipeline.PublishSummary(ctx, queue.Summary{GroupID: 5, Text: "lost"}))
	p.tick(ctx)

	require.Empty(t, results.cached, "cache write is skipped when delivery fails")
}
