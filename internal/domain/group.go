package domain

import "time"

// DefaultSummary is shown before a group has ever generated one.
const DefaultSummary = "No summary yet... \nUse /summary to generate"

// DefaultIntervalSeconds is the cooldown a group or sponsor starts with
// before billing has ever settled it (free-tier: 24h).
const DefaultIntervalSeconds = 24 * 60 * 60

type Group struct {
	ID              int64
	Tier            int
	Balance         int64
	IntervalSeconds int64
	LastRequest     int64 // epoch seconds of last accepted group request, 0 if never
	PayedAt         int64 // epoch seconds of last successful charge
	Active          bool
	CachedSummary   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewGroup returns the row created on first contact with a chat.
func NewGroup(id int64) *Group {
	return &Group{
		ID:              id,
		Tier:            FreeTier,
		IntervalSeconds: DefaultIntervalSeconds,
		CachedSummary:   DefaultSummary,
	}
}

// CanRequest reports whether the group's own cooldown window has elapsed.
func (g *Group) CanRequest(now time.Time) bool {
	return now.Unix() >= g.LastRequest+g.IntervalSeconds
}

// NextEligibleAt is the epoch second at which the group window reopens.
func (g *Group) NextEligibleAt() int64 {
	return g.LastRequest + g.IntervalSeconds
}

// PaidUntil is when the current paid period ends: one calendar month
// after the last successful charge.
func (g *Group) PaidUntil() time.Time {
	return time.Unix(g.PayedAt, 0).UTC().AddDate(0, 1, 0)
}
