package http

import (
	"github.com/gin-gonic/gin"

	"misimuslim/pkg/models"
)

// getProfile returns the authenticated user's profile
func (s *Server) getProfile(c *gin.Context) {
	user, ok := GetUser(c)
	if !ok {
		respondError(c, models.ErrUnauthorized)
		return
	}

	respond(c, 200, "", gin.H{"profile": user.Profile()})
}

// setActiveBorder equips an unlocked border (null clears it)
func (s *Server) setActiveBorder(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req models.SetBorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := s.rewardSvc.SetActiveBorder(c.Request.Context(), userID, req.RewardID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "Active border updated", gin.H{"active_border_id": req.RewardID})
}

// generateAvatar creates an AI avatar from a prompt and stores it
func (s *Server) generateAvatar(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "prompt is required")
		return
	}

	url, err := s.profileSvc.GenerateAvatar(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "Avatar generated", gin.H{"avatar_url": url})
}
