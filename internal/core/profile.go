// Package core - Core Business Logic
// Profile service: AI avatar generation backed by media storage.
package core

import (
	"context"
	"strings"

	"misimuslim/internal/repository"
	"misimuslim/pkg/models"
)

// AvatarGenerator produces an avatar image for a text prompt
type AvatarGenerator interface {
	GenerateAvatar(ctx context.Context, prompt string) ([]byte, string, error)
}

// ProfileService defines profile customization operations
type ProfileService interface {
	GenerateAvatar(ctx context.Context, userID, prompt string) (string, error)
}

type profileService struct {
	userRepo  repository.UserRepository
	generator AvatarGenerator
	media     MediaStore
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repository.UserRepository, generator AvatarGenerator, media MediaStore) ProfileService {
	return &profileService{userRepo: userRepo, generator: generator, media: media}
}

// GenerateAvatar creates an avatar from the prompt, stores it, and makes it
// the user's avatar. Returns the stored URL.
func (s *profileService) GenerateAvatar(ctx context.Context, userID, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", models.NewHTTPError(models.ErrCodeValidation, "avatar prompt is required", 400, nil)
	}
	if len(prompt) > 300 {
		return "", models.NewHTTPError(models.ErrCodeValidation, "avatar prompt is too long", 400, nil)
	}

	image, _, err := s.generator.GenerateAvatar(ctx, prompt)
	if err != nil {
		return "", models.NewHTTPError(models.ErrCodeServiceUnavailable, "avatar generation is unavailable", 503, err)
	}

	url, err := s.media.UploadImage(ctx, image, "avatars")
	if err != nil {
		return "", models.NewHTTPError(models.ErrCodeInternal, "failed to store avatar", 500, err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
