package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/n-OlegS/dnrbot/internal/domain"
	"github.com/n-OlegS/dnrbot/internal/queue"
	"github.com/n-OlegS/dnrbot/internal/repository"
)

// AdmissionService decides whether a summary request may start right now
// and, if so, hands the work to the job queue. The ledger store is the
// single source of truth: every check re-reads the authoritative fields
// under a row lock, so two near-simultaneous requests can never both spend
// the same cooldown window.
type AdmissionService struct {
	db    *pgxpool.Pool
	store *repository.Store
	jobs  *queue.JobQueue
	now   func() time.Time
}

func NewAdmissionService(db *pgxpool.Pool, store *repository.Store, jobs *queue.JobQueue) *AdmissionService {
	return &AdmissionService{db: db, store: store, jobs: jobs, now: time.Now}
}

type funder int

const (
	fundNone funder = iota
	fundGroup
	fundSponsor
)

// decide evaluates the two authorization paths in order: the group's own
// cooldown first, then the sponsor's personal one. sp may be nil when the
// sponsor has not been loaded; a nil or non-paying sponsor rejects with no
// retry hint, since no sponsor-side path exists for them.
func decide(g *domain.Group, sp *domain.Sponsor, now time.Time) (domain.Decision, funder) {
	if g.CanRequest(now) {
		return domain.Accept(g.IntervalSeconds), fundGroup
	}
	if sp == nil || !sp.Paying {
		return domain.Reject(0), fundNone
	}
	if sp.CanRequest(now) {
		return domain.Accept(sp.IntervalSeconds), fundSponsor
	}
	return domain.Reject(sp.NextEligibleAt()), fundNone
}

// RequestSummary runs the admission check for (group, actor) and, on
// acceptance, submits a generation job covering the funding path's
// lookback window. The cooldown update is committed before the job is
// submitted: a crash after commit costs at most one generation, never a
// double-spent window. A submission failure after commit is logged only —
// the consumed cooldown is not refunded.
func (s *AdmissionService) RequestSummary(ctx context.Context, groupID, actorID int64) (domain.Decision, error) {
	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	g, err := lockOrCreateGroup(ctx, qtx, groupID)
	if err != nil {
		return domain.Decision{}, err
	}

	decision, who := decide(g, nil, now)
	if !decision.Accepted && who == fundNone {
		// Group path rejected; try the sponsor path.
		sp, err := lockOrCreateSponsor(ctx, qtx, actorID)
		if err != nil {
			return domain.Decision{}, err
		}
		decision, who = decide(g, sp, now)
	}

	if !decision.Accepted {
		// Commit so a lazily created group/sponsor row survives.
		if err := tx.Commit(ctx); err != nil {
			return domain.Decision{}, fmt.Errorf("commit: %w", err)
		}
		return decision, nil
	}

	switch who {
	case fundGroup:
		err = qtx.UpdateGroupRequest(ctx, groupID, now.Unix())
	case fundSponsor:
		err = qtx.UpdateSponsorRequest(ctx, actorID, now.Unix())
	}
	if err != nil {
		return domain.Decision{}, err
	}

	msgs, err := qtx.MessagesSince(ctx, groupID, now.Unix()-decision.LookbackSeconds)
	if err != nil {
		return domain.Decision{}, err
	}

	// The caller must not see "accepted" until the cooldown update is
	// durable.
	if err := tx.Commit(ctx); err != nil {
		return domain.Decision{}, fmt.Errorf("commit: %w", err)
	}

	job := queue.Job{
		ID:      uuid.NewString(),
		GroupID: groupID,
		Prompt:  BuildPrompt(msgs),
	}
	if err := s.jobs.Submit(ctx, job); err != nil {
		slog.Error("job submission failed after admission; cooldown consumed",
			"job_id", job.ID, "group_id", groupID, "error", err)
	}

	return decision, nil
}

// StoreResult overwrites the group's cached summary. Idempotent,
// last-write-wins.
func (s *AdmissionService) StoreResult(ctx context.Context, groupID int64, text string) error {
	return s.store.UpdateGroupSummary(ctx, groupID, text)
}

// GetStatus returns the group's current ledger state, creating the default
// row on first contact. Pure read otherwise.
func (s *AdmissionService) GetStatus(ctx context.Context, groupID int64) (*domain.Group, error) {
	return s.ensureGroup(ctx, groupID)
}

// GetCachedSummary returns the last delivered summary, or the placeholder
// if none has ever been generated.
func (s *AdmissionService) GetCachedSummary(ctx context.Context, groupID int64) (string, error) {
	g, err := s.ensureGroup(ctx, groupID)
	if err != nil {
		return "", err
	}
	return g.CachedSummary, nil
}

// NewMessage appends one chat message to the group's log.
func (s *AdmissionService) NewMessage(ctx context.Context, m domain.Message) error {
	if _, err := s.ensureGroup(ctx, m.GroupID); err != nil {
		return err
	}
	return s.store.InsertMessage(ctx, &m)
}

// SetSponsorPaying flips an actor's paying flag, creating the sponsor row
// if they have never been seen.
func (s *AdmissionService) SetSponsorPaying(ctx context.Context, actorID int64, paying bool) error {
	err := s.store.SetSponsorPaying(ctx, actorID, paying)
	if errors.Is(err, domain.ErrSponsorNotFound) {
		sp := domain.NewSponsor(actorID)
		sp.Paying = paying
		return s.store.CreateSponsor(ctx, sp)
	}
	return err
}

func (s *AdmissionService) ensureGroup(ctx context.Context, groupID int64) (*domain.Group, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}

	g = domain.NewGroup(groupID)
	if err := s.store.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

func lockOrCreateGroup(ctx context.Context, qtx *repository.Store, groupID int64) (*domain.Group, error) {
	g, err := qtx.GetGroupForUpdate(ctx, groupID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}
	if err := qtx.CreateGroup(ctx, domain.NewGroup(groupID)); err != nil {
		return nil, err
	}
	return qtx.GetGroupForUpdate(ctx, groupID)
}

func lockOrCreateSponsor(ctx context.Context, qtx *repository.Store, actorID int64) (*domain.Sponsor, error) {
	sp, err := qtx.GetSponsorForUpdate(ctx, actorID)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, domain.ErrSponsorNotFound) {
		return nil, err
	}
	if err := qtx.CreateSponsor(ctx, domain.NewSponsor(actorID)); err != nil {
		return nil, err
	}
	return qtx.GetSponsorForUpdate(ctx, actorID)
}

// BuildPrompt concatenates messages as "name: text" lines, oldest first.
func BuildPrompt(msgs []domain.Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.DisplayName + ": " + m.Text
	}
	return strings.Join(lines, "\n")
}
