package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGroupDefaults(t *testing.T) {
	g := NewGroup(-100500)

	require.EqualValues(t, -100500, g.ID)
	require.Equal(t, FreeTier, g.Tier)
	require.Zero(t, g.Balance)
	require.EqualValues(t, DefaultIntervalSeconds, g.IntervalSeconds)
	require.Zero(t, g.LastRequest)
	require.False(t, g.Active)
	require.Equal(t, DefaultSummary, g.CachedSummary)
}

func TestGroupCanRequest(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := NewGroup(1)

	// Never requested: zero wait on first contact.
	require.True(t, g.CanRequest(now))

	g.LastRequest = now.Unix()
	require.False(t, g.CanRequest(now.Add(time.Hour)))
	require.True(t, g.CanRequest(now.Add(24*time.Hour)))
}

func TestGroupNextEligibleAt(t *testing.T) {
	g := NewGroup(1)
	g.LastRequest = 1000
	g.IntervalSeconds = 3600
	require.EqualValues(t, 4600, g.NextEligibleAt())
}

func TestGroupPaidUntilIsCalendarMonth(t *testing.T) {
	g := NewGroup(1)
	g.PayedAt = time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC).Unix()

	// AddDate normalizes Jan 31 + 1 month to Mar 3 (2026 is not a leap year).
	require.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), g.PaidUntil())

	g.PayedAt = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC).Unix()
	require.Equal(t, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), g.PaidUntil())
}

func TestSponsorDefaultsAndCooldown(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	sp := NewSponsor(42)

	require.False(t, sp.Paying, "sponsors start non-paying")
	require.EqualValues(t, DefaultIntervalSeconds, sp.IntervalSeconds)
	require.True(t, sp.CanRequest(now))

	sp.LastRequest = now.Unix()
	require.False(t, sp.CanRequest(now.Add(time.Minute)))
	require.Equal(t, now.Unix()+DefaultIntervalSeconds, sp.NextEligibleAt())
}
