// Package core - Core Business Logic
// Media verification: photo mission submissions and Quran recitation review.
package core

import (
	"context"

	"misimuslim/internal/repository"
	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
)

// recitationOverrideXP replaces the recitation mission's base XP when the
// completion comes through a reviewed recording.
const recitationOverrideXP = 180

// MediaStore persists user-submitted media and returns a public URL
type MediaStore interface {
	UploadImage(ctx context.Context, data []byte, folder string) (string, error)
	UploadAudio(ctx context.Context, data []byte, folder string) (string, error)
}

// MediaVerifier judges user-submitted media. The production implementation
// is the generative-AI client.
type MediaVerifier interface {
	VerifyPhoto(ctx context.Context, photo []byte, mimeType, missionDescription string) (*models.PhotoVerification, error)
	ReviewRecitation(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// VerificationService defines media-backed mission completion
type VerificationService interface {
	SubmitPhoto(ctx context.Context, userID, missionID string, photo []byte, mimeType string) (*models.PhotoVerification, *models.CompletionResult, error)
	SubmitRecitation(ctx context.Context, userID string, audio []byte, mimeType string) (*models.RecitationFeedback, *models.CompletionResult, error)
}

type verificationService struct {
	missionRepo repository.MissionRepository
	missions    MissionService
	verifier    MediaVerifier
	media       MediaStore
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	missionRepo repository.MissionRepository,
	missions MissionService,
	verifier MediaVerifier,
	media MediaStore,
) VerificationService {
	return &verificationService{
		missionRepo: missionRepo,
		missions:    missions,
		verifier:    verifier,
		media:       media,
	}
}

// SubmitPhoto verifies a photo against its mission and completes the mission
// when the photo is judged relevant. The bonus XP a photo mission advertises
// is awarded on top of its base XP.
func (s *verificationService) SubmitPhoto(ctx context.Context, userID, missionID string, photo []byte, mimeType string) (*models.PhotoVerification, *models.CompletionResult, error) {
	board, err := s.missionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var mission *models.Mission
	for i := range board {
		if board[i].ID == missionID {
			mission = &board[i]
			break
		}
	}
	if mission == nil {
		return nil, nil, models.NewHTTPError(models.ErrCodeNotFound, "mission not found on board", 404, nil)
	}
	if mission.Type != models.MissionTypePhoto {
		return nil, nil, models.NewHTTPError(models.ErrCodeBadRequest, "mission does not accept photo submissions", 400, nil)
	}

	verification, err := s.verifier.VerifyPhoto(ctx, photo, mimeType, mission.Description)
	if err != nil {
		return nil, nil, models.NewHTTPError(models.ErrCodeServiceUnavailable, "photo verification is unavailable", 503, err)
	}
	if !verification.IsRelevant {
		return verification, nil, models.ErrPhotoNotRelevant
	}

	// The upload is evidence, not a gate: a storage failure after a passed
	// verification must not cost the user their reward.
	if s.media != nil {
		if _, err := s.media.UploadImage(ctx, photo, "mission-photos"); err != nil {
			logger.Warnf("Photo upload failed for mission %s: %v", missionID, err)
		}
	}

	result, err := s.missions.Complete(ctx, userID, missionID, models.CompleteMissionRequest{
		BonusXP: mission.BonusXP,
	})
	if err != nil {
		return verification, nil, err
	}
	return verification, result, nil
}

// SubmitRecitation sends a recitation recording for review, stores it, and
// auto-completes the permanent recitation mission at the reviewed XP value.
// Feedback is always returned even when the mission is already completed
// this month.
func (s *verificationService) SubmitRecitation(ctx context.Context, userID string, audio []byte, mimeType string) (*models.RecitationFeedback, *models.CompletionResult, error) {
	text, err := s.verifier.ReviewRecitation(ctx, audio, mimeType)
	if err != nil {
		return nil, nil, models.NewHTTPError(models.ErrCodeServiceUnavailable, "recitation review is unavailable", 503, err)
	}

	feedback := &models.RecitationFeedback{Feedback: text}
	if s.media != nil {
		url, err := s.media.UploadAudio(ctx, audio, "recitations")
		if err != nil {
			logger.Warnf("Recitation upload failed for %s: %v", userID, err)
		} else {
			feedback.AudioURL = url
		}
	}

	override := recitationOverrideXP
	result, err := s.missions.Complete(ctx, userID, models.RecitationMissionID, models.CompleteMissionRequest{
		OverrideXP: &override,
	})
	if err != nil {
		// The user still gets their feedback when the completion cannot
		// be recorded (mission missing from the board, storage outage).
		logger.Warnf("Recitation auto-completion failed for %s: %v", userID, err)
		return feedback, nil, nil
	}
	return feedback, result, nil
}
