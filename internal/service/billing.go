package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/n-OlegS/dnrbot/internal/domain"
	"github.com/n-OlegS/dnrbot/internal/queue"
	"github.com/n-OlegS/dnrbot/internal/repository"
)

// BillingService advances paid periods, charges balances and recomputes
// each group's active/cooldown state. All writes of one settlement happen
// in a single transaction: a group is never observed with a charged
// balance but a stale interval.
type BillingService struct {
	db       *pgxpool.Pool
	store    *repository.Store
	pipeline *queue.Pipeline
	now      func() time.Time
}

func NewBillingService(db *pgxpool.Pool, store *repository.Store, pipeline *queue.Pipeline) *BillingService {
	return &BillingService{db: db, store: store, pipeline: pipeline, now: time.Now}
}

// settlement is the outcome of one settle computation.
type settlement struct {
	skip     bool // still within the paid period, nothing to do
	charged  bool
	balance  int64 // new balance, valid when charged
	payedAt  int64 // new paid-period start, valid when charged
	interval int64 // new cooldown in seconds, valid unless skip
}

// computeSettlement applies the monthly billing rule: within the paid
// period nothing changes; past it the tier price is charged if the balance
// covers it, otherwise the group is suspended onto the free-tier cooldown
// with its balance untouched.
func computeSettlement(g *domain.Group, tier, free *domain.Tier, now time.Time, checkDate bool) settlement {
	if checkDate && now.Before(g.PaidUntil()) {
		return settlement{skip: true}
	}

	due := tier.MonthlyPrice
	if g.Balance-due >= 0 {
		return settlement{
			charged:  true,
			balance:  g.Balance - due,
			payedAt:  now.Unix(),
			interval: tier.CooldownSeconds(),
		}
	}
	return settlement{interval: free.CooldownSeconds()}
}

// RunDaily settles every group. Per-group failures are logged and retried
// on the next daily cycle.
func (s *BillingService) RunDaily(ctx context.Context) {
	ids, err := s.store.ListGroupIDs(ctx)
	if err != nil {
		slog.Error("daily settle: list groups", "error", err)
		return
	}

	for _, id := range ids {
		if err := s.Settle(ctx, id, true); err != nil {
			slog.Error("daily settle failed", "group_id", id, "error", err)
		}
	}
	slog.Info("daily settle finished", "groups", len(ids))
}

// Settle charges one group for its current period. With checkDate it
// no-ops while the paid period has not elapsed; without it the charge is
// forced (used right after a tier change).
func (s *BillingService) Settle(ctx context.Context, groupID int64, checkDate bool) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	g, err := qtx.GetGroupForUpdate(ctx, groupID)
	if err != nil {
		return err
	}

	suspended, err := s.settleLocked(ctx, qtx, g, checkDate)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if suspended {
		s.notifySuspended(ctx, g.ID)
	}
	return nil
}

// settleLocked runs the settle computation against an already locked group
// row. It reports whether the group transitioned into suspension.
func (s *BillingService) settleLocked(ctx context.Context, qtx *repository.Store, g *domain.Group, checkDate bool) (bool, error) {
	tier, err := qtx.GetTier(ctx, g.Tier)
	if err != nil {
		return false, err
	}
	free := tier
	if g.Tier != domain.FreeTier {
		if free, err = qtx.GetTier(ctx, domain.FreeTier); err != nil {
			return false, err
		}
	}

	st := computeSettlement(g, tier, free, s.now(), checkDate)
	switch {
	case st.skip:
		return false, nil
	case st.charged:
		return false, qtx.ApplyGroupCharge(ctx, g.ID, st.balance, st.payedAt, st.interval)
	default:
		return g.Active, qtx.SuspendGroup(ctx, g.ID, st.interval)
	}
}

// ChangeTier moves a group to a new rank and settles it immediately, so
// the new cooldown and active status take effect without waiting for the
// daily cycle.
func (s *BillingService) ChangeTier(ctx context.Context, groupID int64, newTier int) error {
	if !domain.ValidTier(newTier) {
		return domain.ErrInvalidTier
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	g, err := lockOrCreateGroup(ctx, qtx, groupID)
	if err != nil {
		return err
	}
	if g.Tier == newTier {
		return domain.ErrTierUnchanged
	}

	if err := qtx.UpdateGroupTier(ctx, groupID, newTier); err != nil {
		return err
	}
	g.Tier = newTier

	suspended, err := s.settleLocked(ctx, qtx, g, false)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if suspended {
		s.notifySuspended(ctx, groupID)
	}
	return nil
}

// TopUp adds stars to the group balance. The amount is pre-validated by
// the command layer; a non-positive value is still rejected here.
func (s *BillingService) TopUp(ctx context.Context, groupID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if err := s.store.CreateGroup(ctx, domain.NewGroup(groupID)); err != nil {
		return 0, err
	}
	return s.store.AddGroupBalance(ctx, groupID, amount)
}

func (s *BillingService) notifySuspended(ctx context.Context, groupID int64) {
	n := queue.Notification{
		RecipientID: groupID,
		Text:        "⚠️ Subscription payment failed: balance too low. Free-tier cooldown applies until the balance is topped up with /pay.",
	}
	if err := s.pipeline.PublishNotification(ctx, n); err != nil {
		slog.Error("publish suspension notification", "group_id", groupID, "error", err)
	}
}
