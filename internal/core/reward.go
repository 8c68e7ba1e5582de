// Package core - Core Business Logic
// Reward shop: catalog listing, coin redemption, and border selection.
package core

import (
	"context"
	"fmt"
	"time"

	"misimuslim/internal/repository"
	"misimuslim/pkg/models"
)

// RewardService defines reward shop operations
type RewardService interface {
	Catalog() []models.Reward
	ListForUser(ctx context.Context, userID string) ([]models.RewardView, error)
	Redeem(ctx context.Context, userID, rewardID string) (*models.RedeemResult, error)
	SetActiveBorder(ctx context.Context, userID string, rewardID *string) error
}

type rewardService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewRewardService creates a new reward service
func NewRewardService(userRepo repository.UserRepository) RewardService {
	return &rewardService{userRepo: userRepo, now: time.Now}
}

// Catalog returns the static reward catalog
func (s *rewardService) Catalog() []models.Reward {
	out := make([]models.Reward, len(rewardCatalog))
	copy(out, rewardCatalog)
	return out
}

// ListForUser returns the catalog decorated with the user's ownership state
func (s *rewardService) ListForUser(ctx context.Context, userID string) ([]models.RewardView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.RewardView, 0, len(rewardCatalog))
	for _, reward := range rewardCatalog {
		view := models.RewardView{
			Reward:   reward,
			Unlocked: user.HasUnlocked(reward.ID),
		}
		if user.ActiveBorderID != nil && *user.ActiveBorderID == reward.ID {
			view.Active = true
		}
		views = append(views, view)
	}
	return views, nil
}

// Redeem purchases a catalog entry. Rejections are checked in a fixed order
// so the client always sees the same reason for the same state: ownership
// first, then season, then affordability. The coin deduction itself
// re-validates in the database, so concurrent redeems cannot double-spend.
func (s *rewardService) Redeem(ctx context.Context, userID, rewardID string) (*models.RedeemResult, error) {
	reward, ok := findReward(rewardID)
	if !ok {
		return nil, models.ErrRewardNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.HasUnlocked(rewardID) {
		return nil, models.ErrRewardOwned
	}
	if reward.Season != nil && !reward.Season.Contains(s.now()) {
		return nil, models.ErrRewardOutOfSeason
	}
	if user.Coins < reward.Cost {
		return nil, models.ErrInsufficientCoins
	}

	remaining, err := s.userRepo.RedeemReward(ctx, userID, reward.Cost, rewardID)
	if err != nil {
		return nil, err
	}

	return &models.RedeemResult{
		RewardID: rewardID,
		Coins:    remaining,
	}, nil
}

// SetActiveBorder equips an unlocked border, or clears the slot when
// rewardID is nil.
func (s *rewardService) SetActiveBorder(ctx context.Context, userID string, rewardID *string) error {
	if rewardID != nil {
		reward, ok := findReward(*rewardID)
		if !ok {
			return models.ErrRewardNotFound
		}
		if reward.Type != models.RewardTypeBorder {
			return models.NewHTTPError(models.ErrCodeBadRequest, fmt.Sprintf("reward %s is not a border", *rewardID), 400, nil)
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.HasUnlocked(*rewardID) {
			return models.ErrBorderNotUnlocked
		}
	}

	return s.userRepo.UpdateActiveBorder(ctx, userID, rewardID)
}
