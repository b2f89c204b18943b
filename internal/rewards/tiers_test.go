package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightfield/wellspring/internal/types"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		total float64
		want  types.MembershipLevel
	}{
		{0, types.LevelFree},
		{99.99, types.LevelFree},
		{100, types.LevelSupporter},
		{499, types.LevelSupporter},
		{499.99, types.LevelSupporter},
		{500, types.LevelChampion},
		{999.99, types.LevelChampion},
		{1000, types.LevelGuardian},
		{1000.01, types.LevelGuardian},
		{250000, types.LevelGuardian},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.total), "total %.2f", tt.total)
	}
}

// Crossing a threshold by any margin changes the tier; sitting exactly
// on one grants it. Note 999.99+0.01 rounds to exactly 1000.0 in
// float64, so the below-guardian case uses a sum that stays under.
func TestTierBoundaryCrossings(t *testing.T) {
	assert.Equal(t, types.LevelSupporter, TierOf(499+0.99))
	assert.Equal(t, types.LevelChampion, TierOf(499+1))
	assert.Equal(t, types.LevelChampion, TierOf(999.98+0.01))
	assert.Equal(t, types.LevelGuardian, TierOf(999.99+0.01))
	assert.Equal(t, types.LevelGuardian, TierOf(999.99+0.02))
}

func TestPointsFor(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		donationType types.DonationType
		want         int
	}{
		{"one-time floors the amount", 50.75, types.DonationOneTime, 50},
		{"monthly doubles after flooring", 50.75, types.DonationMonthly, 100},
		{"whole dollar one-time", 25, types.DonationOneTime, 25},
		{"sub-dollar gift earns nothing", 0.50, types.DonationOneTime, 0},
		{"sub-dollar monthly still nothing", 0.99, types.DonationMonthly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsFor(tt.amount, tt.donationType))
		})
	}
}
