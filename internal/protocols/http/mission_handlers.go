package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"misimuslim/pkg/models"
)

const (
	maxPhotoSize = 5 << 20  // 5MB
	maxAudioSize = 16 << 20 // 16MB
)

// syncMissions reconciles the user's mission board against the current time
// and returns the fresh board. Clients call this on app open.
func (s *Server) syncMissions(c *gin.Context) {
	userID, _ := GetUserID(c)

	result, err := s.missionSvc.Reconcile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "Missions synced", result)
}

// listMissions returns the board without reconciling
func (s *Server) listMissions(c *gin.Context) {
	userID, _ := GetUserID(c)

	missions, err := s.missionSvc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "", gin.H{"missions": missions})
}

// completeMission marks an action mission done and awards its rewards
func (s *Server) completeMission(c *gin.Context) {
	userID, _ := GetUserID(c)
	missionID := c.Param("id")
	if missionID == "" {
		badRequest(c, "mission id is required")
		return
	}

	// The body is optional; a bare tap completes at base values
	var req models.CompleteMissionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	result, err := s.missionSvc.Complete(c.Request.Context(), userID, missionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	s.announceLevelUp(c, result)
	respond(c, 200, "Mission completed", result)
}

// submitPhoto verifies a photo submission and completes the mission
func (s *Server) submitPhoto(c *gin.Context) {
	userID, _ := GetUserID(c)
	missionID := c.Param("id")
	if missionID == "" {
		badRequest(c, "mission id is required")
		return
	}

	data, mimeType, err := readUpload(c, "photo", maxPhotoSize)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	verification, result, err := s.verifySvc.SubmitPhoto(c.Request.Context(), userID, missionID, data, mimeType)
	if err != nil {
		// A rejected photo is a valid outcome the client must explain,
		// so carry the reason alongside the error envelope
		if verification != nil {
			c.JSON(400, gin.H{
				"success":      false,
				"error":        "photo does not match the mission",
				"verification": verification,
			})
			return
		}
		respondError(c, err)
		return
	}

	s.announceLevelUp(c, result)
	respond(c, 200, "Photo accepted", gin.H{
		"verification": verification,
		"completion":   result,
	})
}

// submitRecitation reviews a recitation recording and auto-completes the
// recitation mission
func (s *Server) submitRecitation(c *gin.Context) {
	userID, _ := GetUserID(c)

	data, mimeType, err := readUpload(c, "audio", maxAudioSize)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	feedback, result, err := s.verifySvc.SubmitRecitation(c.Request.Context(), userID, data, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	s.announceLevelUp(c, result)
	respond(c, 200, "Recitation reviewed", gin.H{
		"feedback":   feedback,
		"completion": result,
	})
}

// announceLevelUp pushes a level-up event to the live feed
func (s *Server) announceLevelUp(c *gin.Context, result *models.CompletionResult) {
	if result == nil || !result.LeveledUp || s.feed == nil {
		return
	}
	user, ok := GetUser(c)
	if !ok {
		return
	}
	s.feed.PublishLevelUp(user.ID, user.DisplayName, result.Level, result.Title)
}

// readUpload pulls one multipart file into memory, enforcing a size cap
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", errMissingUpload(field)
	}
	if fileHeader.Size > maxSize {
		return nil, "", errUploadTooLarge(field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize))
	if err != nil {
		return nil, "", err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return data, mimeType, nil
}

type uploadError string

func (e uploadError) Error() string { return string(e) }

func errMissingUpload(field string) error {
	return uploadError(field + " file is required")
}

func errUploadTooLarge(field string) error {
	return uploadError(field + " file is too large")
}
