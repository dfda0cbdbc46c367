package domain

// Decision is the outcome of an admission check for a summary request.
type Decision struct {
	Accepted bool

	// LookbackSeconds is the message window to summarize. Set only when
	// accepted: the interval of whichever path (group or sponsor) funded
	// the request.
	LookbackSeconds int64

	// NextEligibleAt is the epoch second at which the rejected caller may
	// try again. Zero when no retry path exists (non-paying sponsor).
	NextEligibleAt int64
}

// Accept returns an accepted decision with the funding path's lookback.
func Accept(lookbackSeconds int64) Decision {
	return Decision{Accepted: true, LookbackSeconds: lookbackSeconds}
}

// Reject returns a rejected decision. nextEligibleAt may be zero when the
// caller has no sponsor-side path at all.
func Reject(nextEligibleAt int64) Decision {
	return Decision{NextEligibleAt: nextEligibleAt}
}
