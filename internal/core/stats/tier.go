package stats

import "github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"

// Tiers maps global streak length to named milestones, lowest first.
var Tiers = []domain.Tier{
	{Name: "Seedling", MinStreak: 0},
	{Name: "Bronze", MinStreak: 3},
	{Name: "Silver", MinStreak: 7},
	{Name: "Gold", MinStreak: 14},
	{Name: "Platinum", MinStreak: 30},
	{Name: "Diamond", MinStreak: 60},
	{Name: "Legend", MinStreak: 100},
}

// TierForStreak returns the highest tier the streak has reached.
func TierForStreak(streak int) domain.Tier {
	tier := Tiers[0]
	for _, t := range Tiers {
		if streak >= t.MinStreak {
			tier = t
		}
	}
	return tier
}

// NextTier returns the next milestone and the days still needed to reach it.
// ok is false once the top tier is reached.
func NextTier(streak int) (next domain.Tier, daysToGo int, ok bool) {
	for _, t := range Tiers {
		if streak < t.MinStreak {
			return t, t.MinStreak - streak, true
		}
	}
	return domain.Tier{}, 0, false
}
