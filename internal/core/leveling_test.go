package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalXPForLevel(t *testing.T) {
	assert.Equal(t, 0, TotalXPForLevel(0))
	assert.Equal(t, 0, TotalXPForLevel(1))
	assert.Equal(t, 150, TotalXPForLevel(2))
	assert.Equal(t, 450, TotalXPForLevel(3)) // 150 + 300
	assert.Equal(t, 900, TotalXPForLevel(4)) // 150 + 300 + 450
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{149, 1},
		{150, 2},
		{180, 2},
		{449, 2},
		{450, 3},
		{900, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelForXPCapped(t *testing.T) {
	assert.Equal(t, maxLevel, LevelForXP(1<<40))
}

func TestLevelRoundTrip(t *testing.T) {
	// Reaching the exact cumulative threshold must yield that level
	for level := 1; level <= 60; level++ {
		assert.Equal(t, level, LevelForXP(TotalXPForLevel(level)))
	}
}

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		title string
	}{
		{1, "Muslim Baru"},
		{4, "Muslim Baru"},
		{5, "Penuntut Ilmu"},
		{9, "Penuntut Ilmu"},
		{10, "Santri Rajin"},
		{15, "Pejuang Subuh"},
		{20, "Sahabat Quran"},
		{25, "Dai Muda"},
		{30, "Hafiz Muda"},
		{35, "Penjaga Amalan"},
		{40, "Ahli Ibadah"},
		{45, "Mujahid Ilmu"},
		{49, "Mujahid Ilmu"},
		{50, "Teladan Ummat"},
		{999, "Teladan Ummat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.title, TitleForLevel(tt.level), "level=%d", tt.level)
	}
}
