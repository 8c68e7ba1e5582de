// Package core - Core Business Logic
// Leveling calculator: XP curve, level lookup, and cosmetic titles.
package core

// XP cost to go from level L to L+1 is L * 150, so the cumulative curve is
// quadratic in level while the per-level step grows linearly.
const xpStep = 150

// maxLevel bounds LevelForXP against runaway input
const maxLevel = 1000

// TotalXPForLevel returns the cumulative XP required to reach a level.
// Level 1 (and below) costs nothing.
func TotalXPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0
	for i := 2; i <= level; i++ {
		total += (i - 1) * xpStep
	}
	return total
}

// LevelForXP returns the largest level whose cumulative threshold does not
// exceed xp, capped at maxLevel.
func LevelForXP(xp int) int {
	level := 1
	for level < maxLevel && TotalXPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// titleTier maps a minimum level to its cosmetic title
type titleTier struct {
	minLevel int
	title    string
}

// Descending tiers; the first match wins. Every non-negative level maps to
// exactly one title.
var titleTiers = []titleTier{
	{50, "Teladan Ummat"},
	{45, "Mujahid Ilmu"},
	{40, "Ahli Ibadah"},
	{35, "Penjaga Amalan"},
	{30, "Hafiz Muda"},
	{25, "Dai Muda"},
	{20, "Sahabat Quran"},
	{15, "Pejuang Subuh"},
	{10, "Santri Rajin"},
	{5, "Penuntut Ilmu"},
	{0, "Muslim Baru"},
}

// TitleForLevel returns the cosmetic title for a level
func TitleForLevel(level int) string {
	for _, tier := range titleTiers {
		if level >= tier.minLevel {
			return tier.title
		}
	}
	return titleTiers[len(titleTiers)-1].title
}
