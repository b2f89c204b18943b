// Package rewards holds the donation-tiering rules: membership levels
// derived from a running donation total, and reward-point crediting.
// The tables here are the single source of truth; the donation
// completion transaction and the reconciliation sweep both consume
// them.
package rewards

import (
	"math"

	"github.com/brightfield/wellspring/internal/types"
)

// Tier pairs a threshold with the level it grants
type Tier struct {
	Threshold float64
	Level     types.MembershipLevel
}

// tiers is evaluated highest-threshold-first; thresholds are
// non-overlapping by construction.
var tiers = []Tier{
	{Threshold: 1000, Level: types.LevelGuardian},
	{Threshold: 500, Level: types.LevelChampion},
	{Threshold: 100, Level: types.LevelSupporter},
}

// Tiers returns the tier table, highest threshold first. The
// reconciliation sweep uses it to derive its drift filter, so tier
// changes stay in this one table.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierOf maps a running donation total to a membership level
func TierOf(donationTotal float64) types.MembershipLevel {
	for _, t := range tiers {
		if donationTotal >= t.Threshold {
			return t.Level
		}
	}
	return types.LevelFree
}

// monthlyPointsMultiplier doubles points for recurring gifts
const monthlyPointsMultiplier = 2

// PointsFor computes the reward points earned by one donation:
// floor(amount), doubled for monthly donations.
func PointsFor(amount float64, donationType types.DonationType) int {
	points := int(math.Floor(amount))
	if donationType == types.DonationMonthly {
		points *= monthlyPointsMultiplier
	}
	return points
}
