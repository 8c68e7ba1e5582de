package models

import "time"

// Post is an append-only forum entry; no edit or delete
type Post struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Content      string    `json:"content" db:"content"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Comment is a one-to-many child of a post
type Comment struct {
	ID          string    `json:"id" db:"id"`
	PostID      string    `json:"post_id" db:"post_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Username    string    `json:"username" db:"username"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Content     string    `json:"content" db:"content"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreatePostRequest
type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateCommentRequest
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostListResponse with pagination
type PostListResponse struct {
	Data    []Post `json:"data"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
}

// CommentListResponse with pagination
type CommentListResponse struct {
	Data    []Comment `json:"data"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"has_more"`
}
