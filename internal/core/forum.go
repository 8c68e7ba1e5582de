// Package core - Core Business Logic
// Community forum: append-only posts and comments.
package core

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"misimuslim/internal/repository"
	"misimuslim/pkg/models"
)

const maxForumContentLength = 2000

// FeedPublisher pushes community events to connected clients. The websocket
// hub implements it; a nil publisher disables the live feed.
type FeedPublisher interface {
	PublishPost(post *models.Post)
	PublishLevelUp(userID, displayName string, level int, title string)
}

// ForumService defines forum operations
type ForumService interface {
	CreatePost(ctx context.Context, userID string, req models.CreatePostRequest) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) (*models.PostListResponse, error)
	CreateComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, limit, offset int) (*models.CommentListResponse, error)
}

type forumService struct {
	forumRepo repository.ForumRepository
	publisher FeedPublisher
}

// NewForumService creates a new forum service
func NewForumService(forumRepo repository.ForumRepository, publisher FeedPublisher) ForumService {
	return &forumService{forumRepo: forumRepo, publisher: publisher}
}

// CreatePost publishes a new post and pushes it to the live feed
func (s *forumService) CreatePost(ctx context.Context, userID string, req models.CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewHTTPError(models.ErrCodeValidation, "post content is required", 400, nil)
	}
	if len(content) > maxForumContentLength {
		return nil, models.NewHTTPError(models.ErrCodeValidation, "post content is too long", 400, nil)
	}

	post := &models.Post{
		ID:      uuid.New().String(),
		UserID:  userID,
		Content: content,
	}
	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishPost(post)
	}
	return post, nil
}

// ListPosts returns posts newest-first
func (s *forumService) ListPosts(ctx context.Context, limit, offset int) (*models.PostListResponse, error) {
	limit = clampLimit(limit)
	posts, total, err := s.forumRepo.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.PostListResponse{
		Data:    posts,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// CreateComment adds a comment under an existing post
func (s *forumService) CreateComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewHTTPError(models.ErrCodeValidation, "comment content is required", 400, nil)
	}
	if len(content) > maxForumContentLength {
		return nil, models.NewHTTPError(models.ErrCodeValidation, "comment content is too long", 400, nil)
	}

	// Reject comments on posts that do not exist before inserting
	if _, err := s.forumRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:      uuid.New().String(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.forumRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments oldest-first
func (s *forumService) ListComments(ctx context.Context, postID string, limit, offset int) (*models.CommentListResponse, error) {
	if _, err := s.forumRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	limit = clampLimit(limit)
	comments, total, err := s.forumRepo.ListComments(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.CommentListResponse{
		Data:    comments,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
