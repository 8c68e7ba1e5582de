// Package core - Core Business Logic
// Mission board service: window reconciliation and mission completion.
package core

import (
	"context"
	"fmt"
	"time"

	"misimuslim/internal/repository"
	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
	"misimuslim/pkg/utils"
)

// MissionGenerator produces mission content. The production implementation
// calls the generative-AI collaborator; tests substitute a fake.
type MissionGenerator interface {
	GenerateMissions(ctx context.Context, req models.GenerateMissionsRequest) ([]models.Mission, error)
}

// MissionCounts fixes how many missions each window carries after a reset
type MissionCounts struct {
	Daily   int
	Weekly  int
	Monthly int
}

// MissionService defines mission board operations
type MissionService interface {
	List(ctx context.Context, userID string) ([]models.Mission, error)
	Reconcile(ctx context.Context, userID string) (*models.ReconcileResult, error)
	Complete(ctx context.Context, userID, missionID string, req models.CompleteMissionRequest) (*models.CompletionResult, error)
}

type missionService struct {
	userRepo    repository.UserRepository
	missionRepo repository.MissionRepository
	generator   MissionGenerator
	counts      MissionCounts
	now         func() time.Time
}

// NewMissionService creates a new mission service
func NewMissionService(
	userRepo repository.UserRepository,
	missionRepo repository.MissionRepository,
	generator MissionGenerator,
	counts MissionCounts,
) MissionService {
	return &missionService{
		userRepo:    userRepo,
		missionRepo: missionRepo,
		generator:   generator,
		counts:      counts,
		now:         time.Now,
	}
}

// List returns the user's current mission board without reconciling it
func (s *missionService) List(ctx context.Context, userID string) ([]models.Mission, error) {
	return s.missionRepo.ListByUser(ctx, userID)
}

// Reconcile rolls over every window whose period has lapsed since the user's
// last sync. Daily, weekly, and monthly windows are checked independently, so
// a user away for six weeks gets all three resets in one pass. The whole
// rollover persists as a single transactional write.
func (s *missionService) Reconcile(ctx context.Context, userID string) (*models.ReconcileResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	board, err := s.missionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &models.ReconcileResult{
		DailyReset:   !utils.SameDay(user.LastDailyReset, now),
		WeeklyReset:  !utils.SameWeek(user.LastWeeklyReset, now),
		MonthlyReset: !utils.SameMonth(user.LastMonthlyReset, now),
	}
	if !result.DailyReset && !result.WeeklyReset && !result.MonthlyReset {
		result.Missions = board
		return result, nil
	}

	resetCategories := map[models.MissionCategory]bool{
		models.CategoryDaily:   result.DailyReset,
		models.CategoryWeekly:  result.WeeklyReset,
		models.CategoryMonthly: result.MonthlyReset,
	}

	// Expired missions leave the board. Auto missions are permanent: they
	// survive their window's reset and only their completion state recycles.
	var removeIDs []string
	surviving := make([]models.Mission, 0, len(board))
	for _, m := range board {
		if resetCategories[m.Category] && m.Type != models.MissionTypeAuto {
			removeIDs = append(removeIDs, m.ID)
			continue
		}
		surviving = append(surviving, m)
	}

	// The monthly rollover prunes the completed set. Entries for missions
	// still on the board are kept: auto missions keep their stable ids, and
	// a mid-week monthly rollover leaves completed weekly missions in place,
	// so dropping their entries would let them replay inside the same window.
	var completed []string
	if result.MonthlyReset {
		keep := make(map[string]bool, len(surviving))
		for _, m := range surviving {
			keep[m.ID] = true
		}
		completed = []string{}
		for _, id := range user.CompletedMissions {
			if keep[id] {
				completed = append(completed, id)
			}
		}
	}

	// Regenerate each reset window. Generation failures degrade gracefully:
	// the reset timestamps still advance and the slots stay empty until the
	// next successful sync.
	inserted := make([]models.Mission, 0)
	existing := missionIDs(surviving)
	for category, reset := range resetCategories {
		if !reset {
			continue
		}
		generated, err := s.generator.GenerateMissions(ctx, models.GenerateMissionsRequest{
			Level:              user.Level,
			ExistingMissionIDs: existing,
			Count:              s.countFor(category),
			Category:           category,
		})
		if err != nil {
			logger.Warnf("Mission generation failed during reconcile for %s (%s): %v", userID, category, err)
			continue
		}
		for i := range generated {
			generated[i].UserID = userID
			existing = append(existing, generated[i].ID)
		}
		inserted = append(inserted, generated...)
	}

	resets := repository.ResetUpdate{}
	if result.DailyReset {
		resets.Daily = &now
	}
	if result.WeeklyReset {
		resets.Weekly = &now
	}
	if result.MonthlyReset {
		resets.Monthly = &now
	}

	if err := s.missionRepo.ApplyReconciliation(ctx, userID, removeIDs, inserted, resets, completed); err != nil {
		return nil, fmt.Errorf("failed to persist reconciliation: %w", err)
	}

	result.Missions = append(surviving, inserted...)
	return result, nil
}

// Complete awards a mission's rewards and recomputes the derived progression
// fields. Completing a mission that is not on the board, or one already
// completed, is a no-op that reports the current state.
func (s *missionService) Complete(ctx context.Context, userID, missionID string, req models.CompleteMissionRequest) (*models.CompletionResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	board, err := s.missionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var mission *models.Mission
	for i := range board {
		if board[i].ID == missionID {
			mission = &board[i]
			break
		}
	}
	if mission == nil || user.HasCompleted(missionID) {
		return &models.CompletionResult{
			MissionID: missionID,
			XP:        user.XP,
			Coins:     user.Coins,
			Level:     user.Level,
			Title:     user.Title,
		}, nil
	}

	xpGained := mission.XP
	if req.OverrideXP != nil {
		xpGained = *req.OverrideXP
	}
	if mission.Type == models.MissionTypePhoto {
		xpGained += req.BonusXP
	}

	newXP := user.XP + xpGained
	newLevel := LevelForXP(newXP)
	newTitle := TitleForLevel(newLevel)
	newCoins := user.Coins + mission.Coins

	update := repository.CompletionUpdate{
		UserID:            userID,
		XP:                newXP,
		Level:             newLevel,
		XPToNextLevel:     TotalXPForLevel(newLevel + 1),
		Coins:             newCoins,
		Title:             newTitle,
		CompletedMissions: append(user.CompletedMissions, missionID),
	}

	// Completed daily missions leave the board and a replacement is
	// generated so the day's slot count holds. The replacement is
	// best-effort; a generation failure must not block the reward.
	if mission.Category == models.CategoryDaily {
		update.RemoveMissionID = missionID
		update.Replacement = s.generateReplacement(ctx, user, board, missionID)
	}

	if err := s.missionRepo.ApplyCompletion(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to persist completion: %w", err)
	}

	return &models.CompletionResult{
		MissionID:   missionID,
		XPGained:    xpGained,
		CoinsGained: mission.Coins,
		XP:          newXP,
		Coins:       newCoins,
		Level:       newLevel,
		LeveledUp:   newLevel > user.Level,
		Title:       newTitle,
	}, nil
}

func (s *missionService) generateReplacement(ctx context.Context, user *models.User, board []models.Mission, completedID string) *models.Mission {
	existing := missionIDs(board)
	existing = append(existing, user.CompletedMissions...)

	generated, err := s.generator.GenerateMissions(ctx, models.GenerateMissionsRequest{
		Level:              user.Level,
		ExistingMissionIDs: existing,
		Count:              1,
		Category:           models.CategoryDaily,
	})
	if err != nil || len(generated) == 0 {
		logger.Warnf("Replacement generation failed for %s after completing %s: %v", user.ID, completedID, err)
		return nil
	}
	generated[0].UserID = user.ID
	return &generated[0]
}

func (s *missionService) countFor(category models.MissionCategory) int {
	switch category {
	case models.CategoryDaily:
		return s.counts.Daily
	case models.CategoryWeekly:
		return s.counts.Weekly
	default:
		return s.counts.Monthly
	}
}

func missionIDs(missions []models.Mission) []string {
	ids := make([]string, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.ID)
	}
	return ids
}
