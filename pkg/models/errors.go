package models

import (
	"errors"
	"fmt"
	"time"
)

// Error codes used in JSON error responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")

	// Reward redemption rejections (spec-visible reasons)
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardOwned        = errors.New("reward already unlocked")
	ErrRewardOutOfSeason  = errors.New("reward is not available this season")
	ErrInsufficientCoins  = errors.New("not enough coins")
	ErrBorderNotUnlocked  = errors.New("border has not been unlocked")

	// Media verification rejections
	ErrPhotoNotRelevant = errors.New("photo does not match the mission")
)

// AppError carries an HTTP-mappable error through the service layer
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ToHTTPError converts to the generic response envelope
func (e *AppError) ToHTTPError() *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}

// NewHTTPError wraps an underlying error with an HTTP-facing code and status
func NewHTTPError(code, message string, statusCode int, err error) *AppError {
	details := map[string]interface{}{}
	if err != nil {
		details["original_error"] = err.Error()
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}
