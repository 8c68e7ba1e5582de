package models

import (
	"errors"
	"time"
)

// User represents an account plus its full progression state.
// XP only ever increases; Level, Title, and XPToNextLevel are derived from it
// and refreshed on every XP change.
type User struct {
	ID                string     `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	DisplayName       string     `json:"display_name" db:"display_name"`
	AvatarURL         string     `json:"avatar_url,omitempty" db:"avatar_url"`
	XP                int        `json:"xp" db:"xp"`
	Level             int        `json:"level" db:"level"`
	XPToNextLevel     int        `json:"xp_to_next_level" db:"xp_to_next_level"`
	Coins             int        `json:"coins" db:"coins"`
	Title             string     `json:"title" db:"title"`
	CompletedMissions []string   `json:"completed_missions" db:"completed_missions"`
	UnlockedRewardIDs []string   `json:"unlocked_reward_ids" db:"unlocked_reward_ids"`
	ActiveBorderID    *string    `json:"active_border_id,omitempty" db:"active_border_id"`
	LastDailyReset    time.Time  `json:"last_daily_reset" db:"last_daily_reset"`
	LastWeeklyReset   time.Time  `json:"last_weekly_reset" db:"last_weekly_reset"`
	LastMonthlyReset  time.Time  `json:"last_monthly_reset" db:"last_monthly_reset"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// HasCompleted reports whether a mission id is already in the completed set
func (u *User) HasCompleted(missionID string) bool {
	for _, id := range u.CompletedMissions {
		if id == missionID {
			return true
		}
	}
	return false
}

// HasUnlocked reports whether a reward id has been redeemed
func (u *User) HasUnlocked(rewardID string) bool {
	for _, id := range u.UnlockedRewardIDs {
		if id == rewardID {
			return true
		}
	}
	return false
}

// RegisterRequest
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfile - public-facing profile, no sensitive data
type UserProfile struct {
	ID                string   `json:"id"`
	Username          string   `json:"username"`
	DisplayName       string   `json:"display_name"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	XP                int      `json:"xp"`
	Level             int      `json:"level"`
	XPToNextLevel     int      `json:"xp_to_next_level"`
	Coins             int      `json:"coins"`
	Title             string   `json:"title"`
	UnlockedRewardIDs []string `json:"unlocked_reward_ids"`
	ActiveBorderID    *string  `json:"active_border_id,omitempty"`
}

// Profile builds the public view of a user
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:                u.ID,
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		AvatarURL:         u.AvatarURL,
		XP:                u.XP,
		Level:             u.Level,
		XPToNextLevel:     u.XPToNextLevel,
		Coins:             u.Coins,
		Title:             u.Title,
		UnlockedRewardIDs: u.UnlockedRewardIDs,
		ActiveBorderID:    u.ActiveBorderID,
	}
}

// LoginResponse
type LoginResponse struct {
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	ExpiresIn int         `json:"expires_in"` // seconds
}

// LeaderboardEntry is one row of the XP leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
}

// ValidateRegisterRequest adds validation beyond binding tags
func ValidateRegisterRequest(req *RegisterRequest) error {
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}
	if len(req.DisplayName) > 80 {
		return errors.New("display name exceeds 80 characters")
	}
	return nil
}
