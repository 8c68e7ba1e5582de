// Package core - Core Business Logic
// Protocol-agnostic authentication service
// Handles registration (with progression seeding), login, and JWT validation
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"misimuslim/internal/repository"
	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
)

// Progression defaults for a fresh account
const (
	startingCoins = 100
	startingLevel = 1
)

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	missionRepo repository.MissionRepository
	generator   MissionGenerator
	counts      MissionCounts
	jwtSecret   []byte
	jwtIssuer   string
	jwtExpiry   time.Duration
}

// JWT claims structure
type jwtClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service. The mission repo and
// generator seed the first mission board during registration.
func NewAuthService(
	userRepo repository.UserRepository,
	missionRepo repository.MissionRepository,
	generator MissionGenerator,
	counts MissionCounts,
	jwtSecret, jwtIssuer string,
	jwtExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		missionRepo: missionRepo,
		generator:   generator,
		counts:      counts,
		jwtSecret:   []byte(jwtSecret),
		jwtIssuer:   jwtIssuer,
		jwtExpiry:   jwtExpiry,
	}
}

// Register creates a new user account with seeded progression: level 1, zero
// XP, a coin allowance, the starter border, and a first mission board.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := models.ValidateRegisterRequest(&req); err != nil {
		return nil, models.NewHTTPError(models.ErrCodeValidation, err.Error(), 400, err)
	}

	exists, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, models.ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	starterBorder := StarterBorderID
	user := &models.User{
		ID:                uuid.New().String(),
		Username:          req.Username,
		PasswordHash:      string(hashedPassword),
		DisplayName:       req.DisplayName,
		XP:                0,
		Level:             startingLevel,
		XPToNextLevel:     TotalXPForLevel(startingLevel + 1),
		Coins:             startingCoins,
		Title:             TitleForLevel(startingLevel),
		CompletedMissions: []string{},
		UnlockedRewardIDs: []string{StarterBorderID},
		ActiveBorderID:    &starterBorder,
		LastDailyReset:    now,
		LastWeeklyReset:   now,
		LastMonthlyReset:  now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The board is seeded best-effort: a generator outage at signup still
	// leaves the account usable, and the reconciler fills gaps on next sync.
	missions := s.seedMissions(ctx, user)
	if err := s.missionRepo.InsertMissions(ctx, user.ID, missions); err != nil {
		logger.Warnf("Failed to seed mission board for %s: %v", user.Username, err)
	}

	user.PasswordHash = ""
	return user, nil
}

// seedMissions builds the initial board: the permanent recitation mission
// plus generated missions for each category.
func (s *authService) seedMissions(ctx context.Context, user *models.User) []models.Mission {
	missions := []models.Mission{models.RecitationMission(user.ID)}

	for _, window := range []struct {
		category models.MissionCategory
		count    int
	}{
		{models.CategoryDaily, s.counts.Daily},
		{models.CategoryWeekly, s.counts.Weekly},
		{models.CategoryMonthly, s.counts.Monthly},
	} {
		generated, err := s.generator.GenerateMissions(ctx, models.GenerateMissionsRequest{
			Level:              user.Level,
			ExistingMissionIDs: missionIDs(missions),
			Count:              window.count,
			Category:           window.category,
		})
		if err != nil {
			logger.Warnf("Mission generation failed for new user %s (%s): %v", user.Username, window.category, err)
			continue
		}
		for i := range generated {
			generated[i].UserID = user.ID
		}
		missions = append(missions, generated...)
	}
	return missions
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		User:      user.Profile(),
		ExpiresIn: int(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateToken verifies a JWT token and returns the user
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, models.ErrInvalidToken
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *authService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// generateToken creates a new JWT token for a user
func (s *authService) generateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.jwtExpiry)

	claims := &jwtClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
