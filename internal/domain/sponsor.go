package domain

import "time"

// Sponsor is an individual actor who may personally fund summary requests
// independent of the group's subscription. Rows are created lazily on
// first contact and never deleted.
type Sponsor struct {
	ID              int64
	Paying          bool
	LastRequest     int64
	IntervalSeconds int64
	CreatedAt       time.Time
}

// NewSponsor returns the default row for an actor seen for the first time.
// A non-paying sponsor can never satisfy admission on their own.
func NewSponsor(id int64) *Sponsor {
	return &Sponsor{
		ID:              id,
		IntervalSeconds: DefaultIntervalSeconds,
	}
}

// CanRequest reports whether the sponsor's personal cooldown has elapsed.
// Only meaningful for paying sponsors.
func (s *Sponsor) CanRequest(now time.Time) bool {
	return now.Unix() >= s.LastRequest+s.IntervalSeconds
}

// NextEligibleAt is the epoch second at which the sponsor window reopens.
func (s *Sponsor) NextEligibleAt() int64 {
	return s.LastRequest + s.IntervalSeconds
}
