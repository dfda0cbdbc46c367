package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n-OlegS/dnrbot/internal/domain"
)

var (
	freeTier  = &domain.Tier{ID: 0, MonthlyPrice: 0, CooldownMinutes: 1440}
	basicTier = &domain.Tier{ID: 1, MonthlyPrice: 250, CooldownMinutes: 180}
)

func TestComputeSettlementWithinPaidPeriodIsNoop(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g := domain.NewGroup(-100)
	g.Tier = 1
	g.Balance = 300
	g.PayedAt = now.AddDate(0, 0, -10).Unix()

	st := computeSettlement(g, basicTier, freeTier, now, true)
	require.True(t, st.skip)

	// Idempotent: repeating changes nothing either.
	again := computeSettlement(g, basicTier, freeTier, now, true)
	require.Equal(t, st, again)
}

func TestComputeSettlementChargesAfterOneMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g := domain.NewGroup(-100)
	g.Tier = 1
	g.Balance = 300
	g.PayedAt = now.AddDate(0, -1, -1).Unix()

	st := computeSettlement(g, basicTier, freeTier, now, true)

	require.False(t, st.skip)
	require.True(t, st.charged)
	require.EqualValues(t, 50, st.balance)
	require.Equal(t, now.Unix(), st.payedAt)
	require.EqualValues(t, 10800, st.interval)
}

func TestComputeSettlementInsufficientBalanceSuspends(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g := domain.NewGroup(-100)
	g.Tier = 1
	g.Balance = 100
	g.Active = true
	g.PayedAt = now.AddDate(0, -2, 0).Unix()

	st := computeSettlement(g, basicTier, freeTier, now, true)

	require.False(t, st.skip)
	require.False(t, st.charged)
	require.EqualValues(t, 86400, st.interval, "free-tier fallback cooldown")
	require.EqualValues(t, 100, g.Balance, "balance left untouched")
}

func TestComputeSettlementBalanceNeverNegative(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Any sequence of settles keeps balance >= 0: a charge happens only
	// when the full price is covered.
	g := domain.NewGroup(-100)
	g.Tier = 1
	g.Balance = 500

	for i := 0; i < 5; i++ {
		st := computeSettlement(g, basicTier, freeTier, now, false)
		if st.charged {
			g.Balance = st.balance
			g.PayedAt = st.payedAt
		}
		require.GreaterOrEqual(t, g.Balance, int64(0))
	}
	require.EqualValues(t, 0, g.Balance)
}

func TestComputeSettlementFreeTierAlwaysCharges(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g := domain.NewGroup(-100)

	st := computeSettlement(g, freeTier, freeTier, now, true)

	require.True(t, st.charged, "price 0 is always covered")
	require.EqualValues(t, 0, st.balance)
	require.EqualValues(t, 86400, st.interval)
}

func TestComputeSettlementForcedIgnoresPaidPeriod(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g := domain.NewGroup(-100)
	g.Tier = 1
	g.Balance = 1000
	g.PayedAt = now.Unix() // just paid

	st := computeSettlement(g, basicTier, freeTier, now, false)

	require.True(t, st.charged, "tier change settles immediately")
	require.EqualValues(t, 750, st.balance)
}
