package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n-OlegS/dnrbot/internal/domain"
)

func TestDecideFirstContactAcceptsOnGroupPath(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)

	d, who := decide(g, nil, now)

	require.True(t, d.Accepted)
	require.Equal(t, fundGroup, who)
	require.EqualValues(t, 86400, d.LookbackSeconds)
}

func TestDecideGroupCooldownActive(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)
	g.IntervalSeconds = 3600
	g.LastRequest = now.Unix() - 100

	d, who := decide(g, nil, now)

	require.False(t, d.Accepted)
	require.Equal(t, fundNone, who)
	require.Zero(t, d.NextEligibleAt)
}

func TestDecideNonPayingSponsorRejectsWithoutRetryHint(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)
	g.LastRequest = now.Unix() // group window just spent

	sp := domain.NewSponsor(42)

	d, who := decide(g, sp, now)

	require.False(t, d.Accepted)
	require.Equal(t, fundNone, who)
	require.Zero(t, d.NextEligibleAt, "no sponsor-side path exists for non-payers")
}

func TestDecidePayingSponsorFundsPastGroupCooldown(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)
	g.IntervalSeconds = 3600
	g.LastRequest = now.Unix() - 10

	sp := domain.NewSponsor(42)
	sp.Paying = true
	sp.IntervalSeconds = 7200

	d, who := decide(g, sp, now)

	require.True(t, d.Accepted)
	require.Equal(t, fundSponsor, who)
	require.EqualValues(t, 7200, d.LookbackSeconds, "lookback follows the funding path")
}

func TestDecidePayingSponsorStillCoolingDown(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)
	g.LastRequest = now.Unix()

	sp := domain.NewSponsor(42)
	sp.Paying = true
	sp.IntervalSeconds = 7200
	sp.LastRequest = now.Unix() - 100

	d, who := decide(g, sp, now)

	require.False(t, d.Accepted)
	require.Equal(t, fundNone, who)
	require.Equal(t, sp.LastRequest+7200, d.NextEligibleAt)
}

func TestDecideSecondRequestWithinWindowRejected(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := domain.NewGroup(-100)

	first, _ := decide(g, nil, now)
	require.True(t, first.Accepted)

	// The accepted request stamps the window before anyone else can read it.
	g.LastRequest = now.Unix()

	second, _ := decide(g, nil, now.Add(time.Second))
	require.False(t, second.Accepted)
	require.GreaterOrEqual(t, g.NextEligibleAt(), now.Unix())
}

func TestBuildPrompt(t *testing.T) {
	msgs := []domain.Message{
		{DisplayName: "Alice", Text: "hi"},
		{DisplayName: "Bob Smith", Text: "hello there"},
	}
	require.Equal(t, "Alice: hi\nBob Smith: hello there", BuildPrompt(msgs))
}

func TestBuildPromptEmpty(t *testing.T) {
	require.Empty(t, BuildPrompt(nil))
}
