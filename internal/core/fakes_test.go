package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"misimuslim/internal/repository"
	"misimuslim/pkg/models"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return models.ErrUsernameExists
		}
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) UpdateActiveBorder(_ context.Context, id string, rewardID *string) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.ActiveBorderID = rewardID
	return nil
}

func (r *fakeUserRepo) RedeemReward(_ context.Context, id string, cost int, rewardID string) (int, error) {
	user, ok := r.users[id]
	if !ok {
		return 0, models.ErrUserNotFound
	}
	if user.HasUnlocked(rewardID) {
		return 0, models.ErrRewardOwned
	}
	if user.Coins < cost {
		return 0, models.ErrInsufficientCoins
	}
	user.Coins -= cost
	user.UnlockedRewardIDs = append(user.UnlockedRewardIDs, rewardID)
	return user.Coins, nil
}

func (r *fakeUserRepo) ListLeaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].XP > users[j].XP })
	if len(users) > limit {
		users = users[:limit]
	}
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			XP:          u.XP,
			Level:       u.Level,
			Title:       u.Title,
		})
	}
	return entries, nil
}

type fakeMissionRepo struct {
	users  *fakeUserRepo
	boards map[string][]models.Mission
}

func newFakeMissionRepo(users *fakeUserRepo) *fakeMissionRepo {
	return &fakeMissionRepo{users: users, boards: make(map[string][]models.Mission)}
}

func (r *fakeMissionRepo) ListByUser(_ context.Context, userID string) ([]models.Mission, error) {
	board := r.boards[userID]
	out := make([]models.Mission, len(board))
	copy(out, board)
	return out, nil
}

func (r *fakeMissionRepo) InsertMissions(_ context.Context, userID string, missions []models.Mission) error {
	for _, m := range missions {
		if r.hasMission(userID, m.ID) {
			continue
		}
		r.boards[userID] = append(r.boards[userID], m)
	}
	return nil
}

func (r *fakeMissionRepo) ApplyReconciliation(_ context.Context, userID string, removeIDs []string, insert []models.Mission, resets repository.ResetUpdate, completedMissions []string) error {
	user, ok := r.users.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}

	remove := make(map[string]bool, len(removeIDs))
	for _, id := range removeIDs {
		remove[id] = true
	}
	board := r.boards[userID][:0]
	for _, m := range r.boards[userID] {
		if !remove[m.ID] {
			board = append(board, m)
		}
	}
	r.boards[userID] = board
	for _, m := range insert {
		if !r.hasMission(userID, m.ID) {
			r.boards[userID] = append(r.boards[userID], m)
		}
	}

	if resets.Daily != nil {
		user.LastDailyReset = *resets.Daily
	}
	if resets.Weekly != nil {
		user.LastWeeklyReset = *resets.Weekly
	}
	if resets.Monthly != nil {
		user.LastMonthlyReset = *resets.Monthly
	}
	if completedMissions != nil {
		user.CompletedMissions = completedMissions
	}
	return nil
}

func (r *fakeMissionRepo) ApplyCompletion(_ context.Context, update repository.CompletionUpdate) error {
	user, ok := r.users.users[update.UserID]
	if !ok {
		return models.ErrUserNotFound
	}
	user.XP = update.XP
	user.Level = update.Level
	user.XPToNextLevel = update.XPToNextLevel
	user.Coins = update.Coins
	user.Title = update.Title
	user.CompletedMissions = update.CompletedMissions

	if update.RemoveMissionID != "" {
		board := r.boards[update.UserID][:0]
		for _, m := range r.boards[update.UserID] {
			if m.ID != update.RemoveMissionID {
				board = append(board, m)
			}
		}
		r.boards[update.UserID] = board
	}
	if update.Replacement != nil && !r.hasMission(update.UserID, update.Replacement.ID) {
		r.boards[update.UserID] = append(r.boards[update.UserID], *update.Replacement)
	}
	return nil
}

func (r *fakeMissionRepo) hasMission(userID, id string) bool {
	for _, m := range r.boards[userID] {
		if m.ID == id {
			return true
		}
	}
	return false
}

// fakeGenerator hands out deterministic missions, counting calls so tests
// can assert generation happened (or did not).
type fakeGenerator struct {
	calls []models.GenerateMissionsRequest
	fail  bool
	seq   int
}

func (g *fakeGenerator) GenerateMissions(_ context.Context, req models.GenerateMissionsRequest) ([]models.Mission, error) {
	g.calls = append(g.calls, req)
	if g.fail {
		return nil, fmt.Errorf("generator unavailable")
	}
	missions := make([]models.Mission, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		g.seq++
		missions = append(missions, models.Mission{
			ID:          fmt.Sprintf("gen-%s-%d", req.Category, g.seq),
			Title:       fmt.Sprintf("Generated %d", g.seq),
			Description: "generated mission",
			XP:          50,
			Coins:       20,
			Type:        models.MissionTypeAction,
			Category:    req.Category,
		})
	}
	return missions, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.MissionRepository = (*fakeMissionRepo)(nil)
var _ MissionGenerator = (*fakeGenerator)(nil)
