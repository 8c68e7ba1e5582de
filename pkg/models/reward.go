package models

import "time"

// RewardType distinguishes catalog entries
type RewardType string

const (
	RewardTypeTheme  RewardType = "theme"
	RewardTypeBorder RewardType = "border"
)

// Season restricts redemption of a reward to a Gregorian month/day window.
// Windows may wrap the year boundary (e.g. Dec 20 - Jan 5).
type Season struct {
	Name       string     `json:"name"`
	StartMonth time.Month `json:"start_month"`
	StartDay   int        `json:"start_day"`
	EndMonth   time.Month `json:"end_month"`
	EndDay     int        `json:"end_day"`
}

// Contains reports whether t falls inside the season window
func (s Season) Contains(t time.Time) bool {
	cur := int(t.Month())*100 + t.Day()
	start := int(s.StartMonth)*100 + s.StartDay
	end := int(s.EndMonth)*100 + s.EndDay
	if start <= end {
		return cur >= start && cur <= end
	}
	// window wraps the year boundary
	return cur >= start || cur <= end
}

// Reward is a static catalog entry; users own it only once unlocked
type Reward struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cost        int        `json:"cost"`
	Type        RewardType `json:"type"`
	Value       string     `json:"value"` // opaque styling reference for the client
	Season      *Season    `json:"season,omitempty"`
}

// RewardView decorates a catalog entry with per-user ownership
type RewardView struct {
	Reward
	Unlocked bool `json:"unlocked"`
	Active   bool `json:"active"`
}

// RedeemResult is returned after a successful redemption
type RedeemResult struct {
	RewardID string `json:"reward_id"`
	Coins    int    `json:"coins"` // remaining balance
}

// SetBorderRequest selects an unlocked border (null clears it)
type SetBorderRequest struct {
	RewardID *string `json:"reward_id"`
}
