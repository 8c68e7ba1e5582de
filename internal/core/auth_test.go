package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misimuslim/pkg/models"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, *fakeMissionRepo, *fakeGenerator, AuthService) {
	t.Helper()
	users := newFakeUserRepo()
	missions := newFakeMissionRepo(users)
	gen := &fakeGenerator{}
	svc := NewAuthService(users, missions, gen, MissionCounts{Daily: 4, Weekly: 3, Monthly: 2},
		"test-secret", "misimuslim-test", time.Hour)
	return users, missions, gen, svc
}

func TestRegisterSeedsProgression(t *testing.T) {
	_, missions, _, svc := newAuthFixture(t)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "fatimah",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, user.XP)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 150, user.XPToNextLevel)
	assert.Equal(t, 100, user.Coins)
	assert.Equal(t, "Muslim Baru", user.Title)
	assert.Equal(t, "fatimah", user.DisplayName, "display name defaults to username")
	assert.Empty(t, user.PasswordHash, "hash must not leak")

	require.NotNil(t, user.ActiveBorderID)
	assert.Equal(t, StarterBorderID, *user.ActiveBorderID)
	assert.Equal(t, []string{StarterBorderID}, user.UnlockedRewardIDs)

	// Board: permanent recitation mission plus 4 + 3 + 2 generated
	board, err := missions.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, board, 10)

	counts := map[models.MissionCategory]int{}
	hasAuto := false
	for _, m := range board {
		counts[m.Category]++
		if m.ID == models.RecitationMissionID {
			hasAuto = true
			assert.Equal(t, models.MissionTypeAuto, m.Type)
		}
	}
	assert.True(t, hasAuto)
	assert.Equal(t, 4, counts[models.CategoryDaily])
	assert.Equal(t, 3, counts[models.CategoryWeekly])
	assert.Equal(t, 3, counts[models.CategoryMonthly], "2 generated + the recitation mission")
}

func TestRegisterGeneratorOutage(t *testing.T) {
	_, missions, gen, svc := newAuthFixture(t)
	gen.fail = true

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "umar",
		Password: "password123",
	})
	require.NoError(t, err, "signup must survive a generator outage")

	// Only the hand-authored mission makes it onto the board
	board, _ := missions.ListByUser(context.Background(), user.ID)
	require.Len(t, board, 1)
	assert.Equal(t, models.RecitationMissionID, board[0].ID)
}

func TestRegisterValidation(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "ab", Password: "password123"})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "valid", Password: "short"})
	require.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "aisyah", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "aisyah", Password: "password456"})
	assert.ErrorIs(t, err, models.ErrUsernameExists)
}

func TestLoginAndValidateToken(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), models.RegisterRequest{Username: "bilal", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "bilal", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.Greater(t, resp.ExpiresIn, 0)

	user, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "hamzah", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "hamzah", Password: "wrong-password"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, _, _, svc := newAuthFixture(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
