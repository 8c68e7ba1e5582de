package utils

import (
	"context"
	"time"
)

// DefaultTimeout is the standard timeout for database and cache operations
const DefaultTimeout = 5 * time.Second

// UploadTimeout bounds media uploads, which carry whole files
const UploadTimeout = 30 * time.Second

// WithTimeout creates context with default timeout
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}

// WithUploadTimeout creates context with the media upload timeout
func WithUploadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, UploadTimeout)
}

// IsContextError checks if error is from context cancellation
func IsContextError(err error) bool {
	return err != nil && (err == context.Canceled || err == context.DeadlineExceeded)
}
