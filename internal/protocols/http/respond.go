package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"misimuslim/pkg/models"
	"misimuslim/pkg/utils"
)

// respond writes the success envelope
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondError maps a service error to the response envelope
func respondError(c *gin.Context, err error) {
	status := 500
	message := "internal server error"

	var appErr *models.AppError
	switch {
	case utils.IsContextError(err):
		status, message = 503, "request timed out"
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		if status == 0 {
			status = 500
		}
		message = appErr.Message
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidToken):
		status, message = 401, err.Error()
	case errors.Is(err, models.ErrUsernameExists):
		status, message = 409, err.Error()
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrRewardNotFound):
		status, message = 404, err.Error()
	case errors.Is(err, models.ErrRewardOwned):
		status, message = 409, err.Error()
	case errors.Is(err, models.ErrRewardOutOfSeason),
		errors.Is(err, models.ErrBorderNotUnlocked),
		errors.Is(err, models.ErrPhotoNotRelevant):
		status, message = 400, err.Error()
	case errors.Is(err, models.ErrInsufficientCoins):
		status, message = 402, err.Error()
	}

	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

// badRequest writes a 400 with the given reason
func badRequest(c *gin.Context, reason string) {
	c.JSON(400, models.APIResponse{
		Success:   false,
		Error:     reason,
		Timestamp: time.Now(),
	})
}
