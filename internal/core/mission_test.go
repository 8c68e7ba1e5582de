package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misimuslim/pkg/models"
)

func newMissionFixture(t *testing.T) (*fakeUserRepo, *fakeMissionRepo, *fakeGenerator, *missionService) {
	t.Helper()
	users := newFakeUserRepo()
	missions := newFakeMissionRepo(users)
	gen := &fakeGenerator{}
	svc := NewMissionService(users, missions, gen, MissionCounts{Daily: 4, Weekly: 3, Monthly: 2}).(*missionService)
	return users, missions, gen, svc
}

func seedUser(t *testing.T, users *fakeUserRepo, lastSync time.Time) *models.User {
	t.Helper()
	user := &models.User{
		ID:                "user-1",
		Username:          "ahmad",
		DisplayName:       "Ahmad",
		XP:                0,
		Level:             1,
		XPToNextLevel:     150,
		Coins:             100,
		Title:             "Muslim Baru",
		CompletedMissions: []string{},
		UnlockedRewardIDs: []string{StarterBorderID},
		LastDailyReset:    lastSync,
		LastWeeklyReset:   lastSync,
		LastMonthlyReset:  lastSync,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func seedBoard(t *testing.T, missions *fakeMissionRepo, userID string) {
	t.Helper()
	board := []models.Mission{
		models.RecitationMission(userID),
		{ID: "daily-1", UserID: userID, Title: "Sholat Subuh", XP: 40, Coins: 15, Type: models.MissionTypeAction, Category: models.CategoryDaily},
		{ID: "daily-2", UserID: userID, Title: "Sedekah Pagi", XP: 50, Coins: 20, Type: models.MissionTypePhoto, BonusXP: 25, Category: models.CategoryDaily},
		{ID: "weekly-1", UserID: userID, Title: "Jumat Berkah", XP: 80, Coins: 30, Type: models.MissionTypeAction, Category: models.CategoryWeekly},
		{ID: "monthly-1", UserID: userID, Title: "Khatam Juz", XP: 110, Coins: 45, Type: models.MissionTypeAction, Category: models.CategoryMonthly},
	}
	require.NoError(t, missions.InsertMissions(context.Background(), userID, board))
}

func TestReconcileNoResets(t *testing.T) {
	users, missions, gen, svc := newMissionFixture(t)
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedUser(t, users, now.Add(-2*time.Hour))
	seedBoard(t, missions, "user-1")

	result, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.False(t, result.DailyReset)
	assert.False(t, result.WeeklyReset)
	assert.False(t, result.MonthlyReset)
	assert.Len(t, result.Missions, 5)
	assert.Empty(t, gen.calls, "no generation without a reset")
}

func TestReconcileDailyOnly(t *testing.T) {
	users, missions, gen, svc := newMissionFixture(t)
	// Wednesday, so yesterday is the same week and month
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedUser(t, users, now.AddDate(0, 0, -1))
	seedBoard(t, missions, "user-1")

	result, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, result.DailyReset)
	assert.False(t, result.WeeklyReset)
	assert.False(t, result.MonthlyReset)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, models.CategoryDaily, gen.calls[0].Category)
	assert.Equal(t, 4, gen.calls[0].Count)

	// Old daily missions gone, four fresh ones, other windows untouched
	board, _ := missions.ListByUser(context.Background(), "user-1")
	ids := map[string]bool{}
	for _, m := range board {
		ids[m.ID] = true
	}
	assert.False(t, ids["daily-1"])
	assert.False(t, ids["daily-2"])
	assert.True(t, ids["weekly-1"])
	assert.True(t, ids["monthly-1"])
	assert.True(t, ids[models.RecitationMissionID])
	assert.Len(t, board, 7)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.Equal(t, now, user.LastDailyReset)
	assert.NotEqual(t, now, user.LastWeeklyReset)
}

func TestReconcileLongAbsence(t *testing.T) {
	users, missions, gen, svc := newMissionFixture(t)
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := seedUser(t, users, now.AddDate(0, -2, 0))
	seedBoard(t, missions, "user-1")
	// Completed missions from the old month, including the auto mission
	users.users[user.ID].CompletedMissions = []string{"daily-1", "weekly-1", models.RecitationMissionID}

	result, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, result.DailyReset)
	assert.True(t, result.WeeklyReset)
	assert.True(t, result.MonthlyReset)
	assert.Len(t, gen.calls, 3)

	board, _ := missions.ListByUser(context.Background(), "user-1")
	// 4 daily + 3 weekly + 2 monthly generated, plus the surviving auto mission
	assert.Len(t, board, 10)

	// The auto mission survives the monthly rollover with its stable id
	found := false
	for _, m := range board {
		if m.ID == models.RecitationMissionID {
			found = true
		}
	}
	assert.True(t, found)

	// Pruned completed set keeps only the auto mission's entry
	refreshed, _ := users.GetByID(context.Background(), "user-1")
	assert.Equal(t, []string{models.RecitationMissionID}, refreshed.CompletedMissions)
}

func TestReconcileMonthlyRolloverMidWeek(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	// Monday Aug 31 to Tuesday Sep 1: the month rolls over but the week
	// does not, so completed weekly missions stay locked
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := seedUser(t, users, time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC))
	seedBoard(t, missions, "user-1")
	users.users[user.ID].CompletedMissions = []string{"weekly-1", "monthly-1", models.RecitationMissionID}

	result, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, result.DailyReset)
	assert.False(t, result.WeeklyReset)
	assert.True(t, result.MonthlyReset)

	// Entries for missions still on the board survive the monthly prune
	refreshed, _ := users.GetByID(context.Background(), "user-1")
	assert.Contains(t, refreshed.CompletedMissions, "weekly-1")
	assert.Contains(t, refreshed.CompletedMissions, models.RecitationMissionID)
	assert.NotContains(t, refreshed.CompletedMissions, "monthly-1")

	// Replaying the weekly mission inside the same week gains nothing
	replay, err := svc.Complete(context.Background(), "user-1", "weekly-1", models.CompleteMissionRequest{})
	require.NoError(t, err)
	assert.Zero(t, replay.XPGained)
	assert.Zero(t, replay.CoinsGained)
}

func TestReconcileGeneratorFailure(t *testing.T) {
	users, missions, gen, svc := newMissionFixture(t)
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	gen.fail = true

	seedUser(t, users, now.AddDate(0, 0, -1))
	seedBoard(t, missions, "user-1")

	result, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err, "generation failure must not fail the sync")
	assert.True(t, result.DailyReset)

	// Expired missions removed, no replacements, timestamp still advanced
	board, _ := missions.ListByUser(context.Background(), "user-1")
	assert.Len(t, board, 3)
	user, _ := users.GetByID(context.Background(), "user-1")
	assert.Equal(t, now, user.LastDailyReset)
}

func TestCompleteActionMission(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	result, err := svc.Complete(context.Background(), "user-1", "weekly-1", models.CompleteMissionRequest{})
	require.NoError(t, err)

	assert.Equal(t, 80, result.XPGained)
	assert.Equal(t, 30, result.CoinsGained)
	assert.Equal(t, 80, result.XP)
	assert.Equal(t, 130, result.Coins)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)

	// Weekly missions stay on the board after completion
	board, _ := missions.ListByUser(context.Background(), "user-1")
	found := false
	for _, m := range board {
		if m.ID == "weekly-1" {
			found = true
		}
	}
	assert.True(t, found)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.True(t, user.HasCompleted("weekly-1"))
}

func TestCompleteLevelsUp(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	override := 180
	result, err := svc.Complete(context.Background(), "user-1", models.RecitationMissionID, models.CompleteMissionRequest{OverrideXP: &override})
	require.NoError(t, err)

	assert.Equal(t, 180, result.XPGained)
	assert.Equal(t, 180, result.XP)
	assert.Equal(t, 2, result.Level)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, "Muslim Baru", result.Title)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, TotalXPForLevel(3), user.XPToNextLevel)
}

func TestCompletePhotoBonus(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	result, err := svc.Complete(context.Background(), "user-1", "daily-2", models.CompleteMissionRequest{BonusXP: 25})
	require.NoError(t, err)
	assert.Equal(t, 75, result.XPGained, "base 50 + bonus 25")
}

func TestCompleteDailyReplaced(t *testing.T) {
	users, missions, gen, svc := newMissionFixture(t)
	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	_, err := svc.Complete(context.Background(), "user-1", "daily-1", models.CompleteMissionRequest{})
	require.NoError(t, err)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, 1, gen.calls[0].Count)
	assert.Equal(t, models.CategoryDaily, gen.calls[0].Category)
	assert.Contains(t, gen.calls[0].ExistingMissionIDs, "daily-1")

	board, _ := missions.ListByUser(context.Background(), "user-1")
	assert.Len(t, board, 5, "completed daily replaced in place")
	for _, m := range board {
		assert.NotEqual(t, "daily-1", m.ID)
	}
}

func TestCompleteIdempotent(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	first, err := svc.Complete(context.Background(), "user-1", "weekly-1", models.CompleteMissionRequest{})
	require.NoError(t, err)

	second, err := svc.Complete(context.Background(), "user-1", "weekly-1", models.CompleteMissionRequest{})
	require.NoError(t, err)

	assert.Zero(t, second.XPGained)
	assert.Zero(t, second.CoinsGained)
	assert.Equal(t, first.XP, second.XP)
	assert.Equal(t, first.Coins, second.Coins)
}

func TestCompleteUnknownMission(t *testing.T) {
	users, missions, _, svc := newMissionFixture(t)
	user := seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")

	result, err := svc.Complete(context.Background(), "user-1", "no-such-mission", models.CompleteMissionRequest{})
	require.NoError(t, err)

	// Not on the board: a no-op reporting the current state
	assert.Zero(t, result.XPGained)
	assert.Zero(t, result.CoinsGained)
	assert.Equal(t, user.XP, result.XP)
	assert.Equal(t, user.Coins, result.Coins)

	refreshed, _ := users.GetByID(context.Background(), "user-1")
	assert.False(t, refreshed.HasCompleted("no-such-mission"))
}
