package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"misimuslim/pkg/models"
)

// UserRepository handles user rows including the progression columns
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateActiveBorder(ctx context.Context, id string, rewardID *string) error
	RedeemReward(ctx context.Context, id string, cost int, rewardID string) (int, error)
	ListLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
	id, username, password_hash, display_name, avatar_url,
	xp, level, xp_to_next_level, coins, title,
	completed_missions, unlocked_reward_ids, active_border_id,
	last_daily_reset, last_weekly_reset, last_monthly_reset, created_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.XP,
		&user.Level,
		&user.XPToNextLevel,
		&user.Coins,
		&user.Title,
		&user.CompletedMissions,
		&user.UnlockedRewardIDs,
		&user.ActiveBorderID,
		&user.LastDailyReset,
		&user.LastWeeklyReset,
		&user.LastMonthlyReset,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a fully-seeded user row
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, username, password_hash, display_name, avatar_url,
			xp, level, xp_to_next_level, coins, title,
			completed_missions, unlocked_reward_ids, active_border_id,
			last_daily_reset, last_weekly_reset, last_monthly_reset
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
		user.XP,
		user.Level,
		user.XPToNextLevel,
		user.Coins,
		user.Title,
		user.CompletedMissions,
		user.UnlockedRewardIDs,
		user.ActiveBorderID,
		user.LastDailyReset,
		user.LastWeeklyReset,
		user.LastMonthlyReset,
	).Scan(&user.CreatedAt)

	if err != nil {
		return mapDBError(err, "create_user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, err)
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_id")
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, err)
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_username")
	}
	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool

	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, mapDBError(err, "check_username_exists")
	}
	return exists, nil
}

// UpdateAvatar stores a new avatar URL
func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, avatarURL)
	if err != nil {
		return mapDBError(err, "update_avatar")
	}
	if tag.RowsAffected() == 0 {
		return models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, pgx.ErrNoRows)
	}
	return nil
}

// UpdateActiveBorder sets or clears the active border
func (r *userRepository) UpdateActiveBorder(ctx context.Context, id string, rewardID *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET active_border_id = $2 WHERE id = $1`, id, rewardID)
	if err != nil {
		return mapDBError(err, "update_active_border")
	}
	if tag.RowsAffected() == 0 {
		return models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, pgx.ErrNoRows)
	}
	return nil
}

// RedeemReward deducts the cost and appends the reward id in one statement.
// The WHERE clause re-validates affordability and non-duplication so a stale
// client cannot replay the purchase. Returns the remaining coin balance.
func (r *userRepository) RedeemReward(ctx context.Context, id string, cost int, rewardID string) (int, error) {
	query := `
		UPDATE users
		SET coins = coins - $2,
		    unlocked_reward_ids = array_append(unlocked_reward_ids, $3)
		WHERE id = $1
		  AND coins >= $2
		  AND NOT (unlocked_reward_ids @> ARRAY[$3])
		RETURNING coins
	`
	var coins int
	err := r.pool.QueryRow(ctx, query, id, cost, rewardID).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, r.redeemFailureReason(ctx, id, rewardID)
	}
	if err != nil {
		return 0, mapDBError(err, "redeem_reward")
	}
	return coins, nil
}

// redeemFailureReason re-reads the row to report which guard rejected the
// purchase. A concurrent redeem of the same reward trips the ownership guard,
// not the balance check.
func (r *userRepository) redeemFailureReason(ctx context.Context, id, rewardID string) error {
	var owned bool
	query := `SELECT unlocked_reward_ids @> ARRAY[$2] FROM users WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id, rewardID).Scan(&owned)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrUserNotFound
	}
	if err != nil {
		return mapDBError(err, "redeem_reward")
	}
	if owned {
		return models.ErrRewardOwned
	}
	return models.ErrInsufficientCoins
}

// ListLeaderboard returns the top users ordered by cumulative XP
func (r *userRepository) ListLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, username, display_name, avatar_url, xp, level, title
		FROM users
		ORDER BY xp DESC, created_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, mapDBError(err, "list_leaderboard")
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0, limit)
	rank := 0
	for rows.Next() {
		rank++
		entry := models.LeaderboardEntry{Rank: rank}
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.DisplayName,
			&entry.AvatarURL,
			&entry.XP,
			&entry.Level,
			&entry.Title,
		)
		if err != nil {
			return nil, mapDBError(err, "scan_leaderboard")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, "list_leaderboard")
	}
	return entries, nil
}

// mapDBError maps database errors to HTTP-facing error responses
func mapDBError(err error, operation string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewHTTPError(models.ErrCodeNotFound, "resource not found", 404, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if operation == "create_user" {
				return models.NewHTTPError(models.ErrCodeConflict, "username already exists", 409, err)
			}
			return models.NewHTTPError(models.ErrCodeConflict, "resource already exists", 409, err)
		case "23503": // foreign_key_violation
			return models.NewHTTPError(models.ErrCodeBadRequest, "invalid relationship", 400, err)
		case "23514": // check_violation
			return models.NewHTTPError(models.ErrCodeBadRequest, "constraint violated", 400, err)
		}
	}

	return models.NewHTTPError(models.ErrCodeInternal, "database error during "+operation, 500, err)
}
