package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"misimuslim/pkg/models"
)

// ForumRepository handles append-only posts and comments
type ForumRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int, error)
}

type forumRepository struct {
	pool *pgxpool.Pool
}

// NewForumRepository creates a new PostgreSQL forum repository
func NewForumRepository(pool *pgxpool.Pool) ForumRepository {
	return &forumRepository{pool: pool}
}

// CreatePost inserts a post and fills in the author fields for broadcasting
func (r *forumRepository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO forum_posts (id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, post.ID, post.UserID, post.Content).Scan(&post.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_post")
	}

	author := `SELECT username, display_name, avatar_url FROM users WHERE id = $1`
	err = r.pool.QueryRow(ctx, author, post.UserID).Scan(&post.Username, &post.DisplayName, &post.AvatarURL)
	if err != nil {
		return mapDBError(err, "load_post_author")
	}
	return nil
}

// GetPostByID retrieves a post with its author
func (r *forumRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT p.id, p.user_id, u.username, u.display_name, u.avatar_url, p.content,
		       (SELECT COUNT(*) FROM forum_comments c WHERE c.post_id = p.id),
		       p.created_at
		FROM forum_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	post := &models.Post{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.UserID, &post.Username, &post.DisplayName,
		&post.AvatarURL, &post.Content, &post.CommentCount, &post.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewHTTPError(models.ErrCodeNotFound, "post not found", 404, err)
	}
	if err != nil {
		return nil, mapDBError(err, "get_post_by_id")
	}
	return post, nil
}

// ListPosts returns posts newest-first with pagination
func (r *forumRepository) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forum_posts`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_posts")
	}

	query := `
		SELECT p.id, p.user_id, u.username, u.display_name, u.avatar_url, p.content,
		       (SELECT COUNT(*) FROM forum_comments c WHERE c.post_id = p.id),
		       p.created_at
		FROM forum_posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]models.Post, 0, limit)
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Username, &post.DisplayName,
			&post.AvatarURL, &post.Content, &post.CommentCount, &post.CreatedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "list_posts")
	}
	return posts, total, nil
}

// CreateComment inserts a comment under an existing post
func (r *forumRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO forum_comments (id, post_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Content,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_comment")
	}

	author := `SELECT username, display_name FROM users WHERE id = $1`
	err = r.pool.QueryRow(ctx, author, comment.UserID).Scan(&comment.Username, &comment.DisplayName)
	if err != nil {
		return mapDBError(err, "load_comment_author")
	}
	return nil
}

// ListComments returns a post's comments oldest-first with pagination
func (r *forumRepository) ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM forum_comments WHERE post_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_comments")
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, u.display_name, c.content, c.created_at
		FROM forum_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]models.Comment, 0, limit)
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID,
			&comment.Username, &comment.DisplayName, &comment.Content, &comment.CreatedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "list_comments")
	}
	return comments, total, nil
}
