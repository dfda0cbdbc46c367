package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/n-OlegS/dnrbot/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every query can
// run either standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store holds all queries the core needs against the ledger schema.
type Store struct {
	db DBTX
}

func New(db DBTX) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to the given transaction.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: tx}
}

// Groups

const groupColumns = `id, tier, balance, interval_seconds, last_request, payed_at, active, cached_summary, created_at, updated_at`

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	err := row.Scan(&g.ID, &g.Tier, &g.Balance, &g.IntervalSeconds, &g.LastRequest,
		&g.PayedAt, &g.Active, &g.CachedSummary, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return &g, nil
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return scanGroup(s.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
}

// GetGroupForUpdate locks the group row for the duration of the enclosing
// transaction. Admission and settlement both rely on this lock to keep the
// read-then-write of cooldown and balance fields serialized per group.
func (s *Store) GetGroupForUpdate(ctx context.Context, id int64) (*domain.Group, error) {
	return scanGroup(s.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO groups (id, tier, balance, interval_seconds, last_request, payed_at, active, cached_summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		g.ID, g.Tier, g.Balance, g.IntervalSeconds, g.LastRequest, g.PayedAt, g.Active, g.CachedSummary)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (s *Store) UpdateGroupRequest(ctx context.Context, id, lastRequest int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE groups SET last_request = $2, updated_at = now() WHERE id = $1`, id, lastRequest)
	if err != nil {
		return fmt.Errorf("update group request: %w", err)
	}
	return nil
}

func (s *Store) UpdateGroupSummary(ctx context.Context, id int64, summary string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE groups SET cached_summary = $2, updated_at = now() WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("update group summary: %w", err)
	}
	return nil
}

func (s *Store) UpdateGroupTier(ctx context.Context, id int64, tier int) error {
	_, err := s.db.Exec(ctx,
		`UPDATE groups SET tier = $2, updated_at = now() WHERE id = $1`, id, tier)
	if err != nil {
		return fmt.Errorf("update group tier: %w", err)
	}
	return nil
}

// ApplyGroupCharge commits a successful settlement: the charged balance,
// the new paid-period start, and the tier's cooldown, in one statement.
func (s *Store) ApplyGroupCharge(ctx context.Context, id, balance, payedAt, intervalSeconds int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE groups SET balance = $2, payed_at = $3, active = TRUE, interval_seconds = $4, updated_at = now()
		 WHERE id = $1`,
		id, balance, payedAt, intervalSeconds)
	if err != nil {
		return fmt.Errorf("apply group charge: %w", err)
	}
	return nil
}

// SuspendGroup marks a group inactive with the free-tier fallback cooldown.
// The balance is left untouched.
func (s *Store) SuspendGroup(ctx context.Context, id, intervalSeconds int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE groups SET active = FALSE, interval_seconds = $2, updated_at = now() WHERE id = $1`,
		id, intervalSeconds)
	if err != nil {
		return fmt.Errorf("suspend group: %w", err)
	}
	return nil
}

func (s *Store) AddGroupBalance(ctx context.Context, id, amount int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx,
		`UPDATE groups SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance`,
		id, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrGroupNotFound
		}
		return 0, fmt.Errorf("add group balance: %w", err)
	}
	return balance, nil
}

func (s *Store) ListGroupIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list group ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Sponsors

func scanSponsor(row pgx.Row) (*domain.Sponsor, error) {
	var sp domain.Sponsor
	err := row.Scan(&sp.ID, &sp.Paying, &sp.LastRequest, &sp.IntervalSeconds, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSponsorNotFound
		}
		return nil, fmt.Errorf("scan sponsor: %w", err)
	}
	return &sp, nil
}

func (s *Store) GetSponsor(ctx context.Context, id int64) (*domain.Sponsor, error) {
	return scanSponsor(s.db.QueryRow(ctx,
		`SELECT id, paying, last_request, interval_seconds, created_at FROM sponsors WHERE id = $1`, id))
}

func (s *Store) GetSponsorForUpdate(ctx context.Context, id int64) (*domain.Sponsor, error) {
	return scanSponsor(s.db.QueryRow(ctx,
		`SELECT id, paying, last_request, interval_seconds, created_at FROM sponsors WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) CreateSponsor(ctx context.Context, sp *domain.Sponsor) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sponsors (id, paying, last_request, interval_seconds)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		sp.ID, sp.Paying, sp.LastRequest, sp.IntervalSeconds)
	if err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

func (s *Store) UpdateSponsorRequest(ctx context.Context, id, lastRequest int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE sponsors SET last_request = $2 WHERE id = $1`, id, lastRequest)
	if err != nil {
		return fmt.Errorf("update sponsor request: %w", err)
	}
	return nil
}

func (s *Store) SetSponsorPaying(ctx context.Context, id int64, paying bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sponsors SET paying = $2 WHERE id = $1`, id, paying)
	if err != nil {
		return fmt.Errorf("set sponsor paying: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSponsorNotFound
	}
	return nil
}

// Tiers

func (s *Store) GetTier(ctx context.Context, id int) (*domain.Tier, error) {
	var t domain.Tier
	err := s.db.QueryRow(ctx,
		`SELECT id, monthly_price, cooldown_minutes FROM tiers WHERE id = $1`, id).
		Scan(&t.ID, &t.MonthlyPrice, &t.CooldownMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTierNotFound
		}
		return nil, fmt.Errorf("get tier: %w", err)
	}
	return &t, nil
}

// Messages

func (s *Store) InsertMessage(ctx context.Context, m *domain.Message) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (group_id, id, user_id, display_name, text, ts)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (group_id, id) DO NOTHING`,
		m.GroupID, m.ID, m.UserID, m.DisplayName, m.Text, m.TS)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// MessagesSince returns the group's messages with ts > from, oldest first.
func (s *Store) MessagesSince(ctx context.Context, groupID, from int64) ([]domain.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT group_id, id, user_id, display_name, text, ts
		 FROM messages WHERE group_id = $1 AND ts > $2 ORDER BY ts, id`,
		groupID, from)
	if err != nil {
		return nil, fmt.Errorf("messages since: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.GroupID, &m.ID, &m.UserID, &m.DisplayName, &m.Text, &m.TS); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) DeleteMessagesBefore(ctx context.Context, ts int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM messages WHERE ts < $1`, ts)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
