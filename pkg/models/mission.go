// Package models - Mission and Progression Types
// Shared between the reconciler, completion handler, and HTTP layer.
package models

import (
	"fmt"
	"time"
)

// MissionType discriminates how a mission gets completed
type MissionType string

const (
	MissionTypePhoto  MissionType = "photo"  // completed by uploading a verified photo
	MissionTypeAction MissionType = "action" // completed by the user tapping done
	MissionTypeAuto   MissionType = "auto"   // completed through a side channel (recitation)
)

// MissionCategory is the reset window a mission belongs to
type MissionCategory string

const (
	CategoryDaily   MissionCategory = "Harian"
	CategoryWeekly  MissionCategory = "Mingguan"
	CategoryMonthly MissionCategory = "Bulanan"
)

// Mission is one active task on a user's mission board
type Mission struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"-" db:"user_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	XP          int             `json:"xp" db:"xp"`
	Coins       int             `json:"coins" db:"coins"`
	Type        MissionType     `json:"type" db:"type"`
	BonusXP     int             `json:"bonus_xp,omitempty" db:"bonus_xp"`
	Category    MissionCategory `json:"category" db:"category"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Validate enforces the per-type field constraints.
// BonusXP is only meaningful for photo missions, and auto missions are
// never produced by the generator (they are hand-authored).
func (m *Mission) Validate() error {
	switch m.Type {
	case MissionTypePhoto, MissionTypeAction, MissionTypeAuto:
	default:
		return fmt.Errorf("invalid mission type: %s", m.Type)
	}
	switch m.Category {
	case CategoryDaily, CategoryWeekly, CategoryMonthly:
	default:
		return fmt.Errorf("invalid mission category: %s", m.Category)
	}
	if m.XP < 0 || m.Coins < 0 || m.BonusXP < 0 {
		return fmt.Errorf("mission rewards must be non-negative")
	}
	if m.Type != MissionTypePhoto && m.BonusXP != 0 {
		return fmt.Errorf("bonus xp is only valid for photo missions")
	}
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// GenerateMissionsRequest is the payload sent to the content generator
type GenerateMissionsRequest struct {
	Level              int             `json:"level"`
	ExistingMissionIDs []string        `json:"existing_mission_ids"`
	Count              int             `json:"count"`
	Category           MissionCategory `json:"category"`
}

// GenerateMissionsResponse is what the content generator returns
type GenerateMissionsResponse struct {
	Missions []Mission `json:"missions"`
}

// CompleteMissionRequest carries optional XP adjustments for a completion.
// OverrideXP replaces the mission's base XP when the completion comes from a
// side channel (photo verification, recitation) rather than a direct tap.
type CompleteMissionRequest struct {
	BonusXP    int  `json:"bonus_xp"`
	OverrideXP *int `json:"override_xp,omitempty"`
}

// CompletionResult is the user-visible reward summary after a completion
type CompletionResult struct {
	MissionID   string `json:"mission_id"`
	XPGained    int    `json:"xp_gained"`
	CoinsGained int    `json:"coins_gained"`
	XP          int    `json:"xp"`
	Coins       int    `json:"coins"`
	Level       int    `json:"level"`
	LeveledUp   bool   `json:"leveled_up"`
	Title       string `json:"title"`
}

// ReconcileResult reports which windows rolled over during a sync
type ReconcileResult struct {
	DailyReset   bool      `json:"daily_reset"`
	WeeklyReset  bool      `json:"weekly_reset"`
	MonthlyReset bool      `json:"monthly_reset"`
	Missions     []Mission `json:"missions"`
}

// RecitationMissionID is the single hand-authored auto mission. Its id is
// stable so completion state survives monthly pruning.
const RecitationMissionID = "mission-recitation-monthly"

// RecitationMission returns the permanent Quran recitation mission for a user
func RecitationMission(userID string) Mission {
	return Mission{
		ID:          RecitationMissionID,
		UserID:      userID,
		Title:       "Latihan Tilawah",
		Description: "Rekam bacaan Quran-mu dan dapatkan umpan balik dari AI",
		XP:          120,
		Coins:       40,
		Type:        MissionTypeAuto,
		Category:    CategoryMonthly,
	}
}
