package domain

import "strings"

const (
	// FreeTier is rank 0. Its cooldown is also the fallback applied to
	// suspended groups regardless of their nominal tier.
	FreeTier = 0

	// MaxTier is the highest rank.
	MaxTier = 4
)

// Tier is one row of the static rank table.
type Tier struct {
	ID              int
	MonthlyPrice    int64
	CooldownMinutes int64
}

// CooldownSeconds is the cooldown this tier grants, in seconds.
func (t *Tier) CooldownSeconds() int64 {
	return t.CooldownMinutes * 60
}

// ValidTier reports whether id is a known rank.
func ValidTier(id int) bool {
	return id >= FreeTier && id <= MaxTier
}

// tierNames maps the human-facing tier names to numeric ranks. Identity is
// the rank; names are display-only. "max" and "elite" are aliases of the
// same top rank.
var tierNames = map[string]int{
	"free":  0,
	"basic": 1,
	"plus":  2,
	"pro":   3,
	"max":   4,
	"elite": 4,
}

// tierDisplay is the canonical display name per rank.
var tierDisplay = [...]string{"free", "basic", "plus", "pro", "max"}

// ParseTierName resolves a human-facing tier name to its numeric rank.
func ParseTierName(name string) (int, error) {
	id, ok := tierNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrInvalidTier
	}
	return id, nil
}

// TierName returns the canonical display name for a rank.
func TierName(id int) string {
	if !ValidTier(id) {
		return "unknown"
	}
	return tierDisplay[id]
}
