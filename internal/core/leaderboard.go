// Package core - Core Business Logic
// XP leaderboard with a short-lived Redis cache in front of PostgreSQL.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"misimuslim/internal/repository"
	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardSize     = 50
)

// LeaderboardService defines leaderboard operations
type LeaderboardService interface {
	Top(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	userRepo repository.UserRepository
	cache    *redis.Client
}

// NewLeaderboardService creates a leaderboard service. cache may be nil, in
// which case every read goes to the database.
func NewLeaderboardService(userRepo repository.UserRepository, cache *redis.Client) LeaderboardService {
	return &leaderboardService{userRepo: userRepo, cache: cache}
}

// Top returns the highest-XP users. The cache is advisory: any Redis failure
// falls through to PostgreSQL.
func (s *leaderboardService) Top(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, leaderboardCacheKey).Bytes()
		if err == nil {
			var entries []models.LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Warnf("Leaderboard cache read failed: %v", err)
		}
	}

	entries, err := s.userRepo.ListLeaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Warnf("Leaderboard cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}
