package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misimuslim/pkg/models"
)

type fakeVerifier struct {
	relevant bool
	reason   string
	feedback string
	fail     bool
}

func (v *fakeVerifier) VerifyPhoto(_ context.Context, _ []byte, _, _ string) (*models.PhotoVerification, error) {
	if v.fail {
		return nil, fmt.Errorf("verifier down")
	}
	return &models.PhotoVerification{IsRelevant: v.relevant, Reason: v.reason}, nil
}

func (v *fakeVerifier) ReviewRecitation(_ context.Context, _ []byte, _ string) (string, error) {
	if v.fail {
		return "", fmt.Errorf("verifier down")
	}
	return v.feedback, nil
}

type fakeMediaStore struct {
	uploads int
	fail    bool
}

func (m *fakeMediaStore) UploadImage(_ context.Context, _ []byte, folder string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("storage down")
	}
	m.uploads++
	return "https://media.test/" + folder + "/1.jpg", nil
}

func (m *fakeMediaStore) UploadAudio(_ context.Context, _ []byte, folder string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("storage down")
	}
	m.uploads++
	return "https://media.test/" + folder + "/1.mp3", nil
}

func newVerificationFixture(t *testing.T) (*fakeUserRepo, *fakeVerifier, *fakeMediaStore, VerificationService) {
	t.Helper()
	users, missions, gen, missionSvc := newMissionFixture(t)
	_ = gen
	verifier := &fakeVerifier{relevant: true, feedback: "Tajwid sudah baik"}
	media := &fakeMediaStore{}
	svc := NewVerificationService(missions, missionSvc, verifier, media)

	seedUser(t, users, time.Now())
	seedBoard(t, missions, "user-1")
	return users, verifier, media, svc
}

func TestSubmitPhotoRelevant(t *testing.T) {
	users, _, media, svc := newVerificationFixture(t)

	verification, result, err := svc.SubmitPhoto(context.Background(), "user-1", "daily-2", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, verification.IsRelevant)
	require.NotNil(t, result)
	assert.Equal(t, 75, result.XPGained, "base 50 + bonus 25")
	assert.Equal(t, 1, media.uploads)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.True(t, user.HasCompleted("daily-2"))
}

func TestSubmitPhotoRejected(t *testing.T) {
	users, verifier, media, svc := newVerificationFixture(t)
	verifier.relevant = false
	verifier.reason = "foto tidak sesuai"

	verification, result, err := svc.SubmitPhoto(context.Background(), "user-1", "daily-2", []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, models.ErrPhotoNotRelevant)
	require.NotNil(t, verification)
	assert.Equal(t, "foto tidak sesuai", verification.Reason)
	assert.Nil(t, result)
	assert.Zero(t, media.uploads, "rejected photos are not stored")

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.False(t, user.HasCompleted("daily-2"))
}

func TestSubmitPhotoWrongMissionType(t *testing.T) {
	_, _, _, svc := newVerificationFixture(t)

	_, _, err := svc.SubmitPhoto(context.Background(), "user-1", "daily-1", []byte("img"), "image/jpeg")
	require.Error(t, err, "daily-1 is an action mission")
}

func TestSubmitPhotoStorageOutage(t *testing.T) {
	users, _, media, svc := newVerificationFixture(t)
	media.fail = true

	_, result, err := svc.SubmitPhoto(context.Background(), "user-1", "daily-2", []byte("img"), "image/jpeg")
	require.NoError(t, err, "storage outage must not block the reward")
	require.NotNil(t, result)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.True(t, user.HasCompleted("daily-2"))
}

func TestSubmitRecitation(t *testing.T) {
	users, _, _, svc := newVerificationFixture(t)

	feedback, result, err := svc.SubmitRecitation(context.Background(), "user-1", []byte("audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "Tajwid sudah baik", feedback.Feedback)
	assert.NotEmpty(t, feedback.AudioURL)

	require.NotNil(t, result)
	assert.Equal(t, recitationOverrideXP, result.XPGained)
	assert.Equal(t, 2, result.Level, "180 xp crosses the first threshold")
	assert.True(t, result.LeveledUp)

	user, _ := users.GetByID(context.Background(), "user-1")
	assert.True(t, user.HasCompleted(models.RecitationMissionID))
}

func TestSubmitRecitationAlreadyCompleted(t *testing.T) {
	_, _, _, svc := newVerificationFixture(t)

	_, first, err := svc.SubmitRecitation(context.Background(), "user-1", []byte("audio"), "audio/mpeg")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second submission this month: feedback still flows, no double award
	feedback, second, err := svc.SubmitRecitation(context.Background(), "user-1", []byte("audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.NotNil(t, feedback)
	require.NotNil(t, second)
	assert.Zero(t, second.XPGained)
	assert.Equal(t, first.XP, second.XP)
}

func TestSubmitRecitationVerifierOutage(t *testing.T) {
	_, verifier, _, svc := newVerificationFixture(t)
	verifier.fail = true

	_, _, err := svc.SubmitRecitation(context.Background(), "user-1", []byte("audio"), "audio/mpeg")
	require.Error(t, err)
}
