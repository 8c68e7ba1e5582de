package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(date(2025, 3, 10), time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDay(date(2025, 3, 10), date(2025, 3, 11)))
	assert.False(t, SameDay(date(2024, 3, 10), date(2025, 3, 10)))
}

func TestStartOfWeek(t *testing.T) {
	// 2025-03-12 is a Wednesday; its week starts Monday 2025-03-10
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(date(2025, 3, 12)))
	// Monday maps to itself
	assert.Equal(t, monday, StartOfWeek(date(2025, 3, 10)))
	// Sunday belongs to the week that started six days earlier
	assert.Equal(t, monday, StartOfWeek(date(2025, 3, 16)))
	// Next Monday starts a new week
	assert.Equal(t, monday.AddDate(0, 0, 7), StartOfWeek(date(2025, 3, 17)))
}

func TestSameWeek(t *testing.T) {
	assert.True(t, SameWeek(date(2025, 3, 10), date(2025, 3, 16)))  // Mon..Sun
	assert.False(t, SameWeek(date(2025, 3, 9), date(2025, 3, 10)))  // Sun vs next Mon
	assert.False(t, SameWeek(date(2025, 3, 16), date(2025, 3, 17))) // Sun vs Mon
}

func TestSameMonth(t *testing.T) {
	assert.True(t, SameMonth(date(2025, 3, 1), date(2025, 3, 31)))
	assert.False(t, SameMonth(date(2025, 3, 31), date(2025, 4, 1)))
	assert.False(t, SameMonth(date(2024, 3, 1), date(2025, 3, 1)))
}
