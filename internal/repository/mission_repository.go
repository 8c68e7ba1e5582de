package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"misimuslim/pkg/models"
)

// ResetUpdate carries the reset timestamps a reconciliation pass touched.
// Nil fields are left unchanged.
type ResetUpdate struct {
	Daily   *time.Time
	Weekly  *time.Time
	Monthly *time.Time
}

// CompletionUpdate is the single persisted write of a mission completion
type CompletionUpdate struct {
	UserID            string
	XP                int
	Level             int
	XPToNextLevel     int
	Coins             int
	Title             string
	CompletedMissions []string
	RemoveMissionID   string          // empty when the mission stays on the board
	Replacement       *models.Mission // optional regenerated daily mission
}

// MissionRepository handles per-user mission rows. Reconciliation and
// completion mutate both user_missions and users, so those writes run in a
// single transaction to honor the one-update persistence rule.
type MissionRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Mission, error)
	InsertMissions(ctx context.Context, userID string, missions []models.Mission) error
	ApplyReconciliation(ctx context.Context, userID string, removeIDs []string, insert []models.Mission, resets ResetUpdate, completedMissions []string) error
	ApplyCompletion(ctx context.Context, update CompletionUpdate) error
}

type missionRepository struct {
	pool *pgxpool.Pool
}

// NewMissionRepository creates a new PostgreSQL mission repository
func NewMissionRepository(pool *pgxpool.Pool) MissionRepository {
	return &missionRepository{pool: pool}
}

const missionColumns = `id, user_id, title, description, xp, coins, type, bonus_xp, category, created_at`

// ListByUser returns the user's active mission board
func (r *missionRepository) ListByUser(ctx context.Context, userID string) ([]models.Mission, error) {
	query := `
		SELECT ` + missionColumns + `
		FROM user_missions
		WHERE user_id = $1
		ORDER BY category, created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapDBError(err, "list_missions")
	}
	defer rows.Close()

	missions := make([]models.Mission, 0)
	for rows.Next() {
		var m models.Mission
		err := rows.Scan(
			&m.ID, &m.UserID, &m.Title, &m.Description,
			&m.XP, &m.Coins, &m.Type, &m.BonusXP, &m.Category, &m.CreatedAt,
		)
		if err != nil {
			return nil, mapDBError(err, "scan_mission")
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, "list_missions")
	}
	return missions, nil
}

// InsertMissions adds missions to a user's board (registration seeding)
func (r *missionRepository) InsertMissions(ctx context.Context, userID string, missions []models.Mission) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return insertMissionsTx(ctx, tx, userID, missions)
	})
}

// ApplyReconciliation drops expired missions, inserts their replacements,
// advances the dirty reset timestamps, and (on monthly rollover) writes the
// pruned completed-mission set, all in one transaction.
func (r *missionRepository) ApplyReconciliation(ctx context.Context, userID string, removeIDs []string, insert []models.Mission, resets ResetUpdate, completedMissions []string) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if len(removeIDs) > 0 {
			_, err := tx.Exec(ctx,
				`DELETE FROM user_missions WHERE user_id = $1 AND id = ANY($2)`,
				userID, removeIDs,
			)
			if err != nil {
				return mapDBError(err, "delete_missions")
			}
		}

		if err := insertMissionsTx(ctx, tx, userID, insert); err != nil {
			return err
		}

		query := `
			UPDATE users
			SET last_daily_reset   = COALESCE($2, last_daily_reset),
			    last_weekly_reset  = COALESCE($3, last_weekly_reset),
			    last_monthly_reset = COALESCE($4, last_monthly_reset),
			    completed_missions = COALESCE($5, completed_missions)
			WHERE id = $1
		`
		_, err := tx.Exec(ctx, query, userID, resets.Daily, resets.Weekly, resets.Monthly, completedMissions)
		if err != nil {
			return mapDBError(err, "update_resets")
		}
		return nil
	})
}

// ApplyCompletion persists xp, level, xpToNextLevel, coins, title, and the
// completed set, removing the mission row (and inserting a regenerated
// replacement) for daily missions.
func (r *missionRepository) ApplyCompletion(ctx context.Context, update CompletionUpdate) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE users
			SET xp = $2,
			    level = $3,
			    xp_to_next_level = $4,
			    coins = $5,
			    title = $6,
			    completed_missions = $7
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query,
			update.UserID,
			update.XP,
			update.Level,
			update.XPToNextLevel,
			update.Coins,
			update.Title,
			update.CompletedMissions,
		)
		if err != nil {
			return mapDBError(err, "update_progression")
		}
		if tag.RowsAffected() == 0 {
			return models.NewHTTPError(models.ErrCodeNotFound, "user not found", 404, pgx.ErrNoRows)
		}

		if update.RemoveMissionID != "" {
			_, err := tx.Exec(ctx,
				`DELETE FROM user_missions WHERE user_id = $1 AND id = $2`,
				update.UserID, update.RemoveMissionID,
			)
			if err != nil {
				return mapDBError(err, "delete_completed_mission")
			}
		}

		if update.Replacement != nil {
			return insertMissionsTx(ctx, tx, update.UserID, []models.Mission{*update.Replacement})
		}
		return nil
	})
}

func insertMissionsTx(ctx context.Context, tx pgx.Tx, userID string, missions []models.Mission) error {
	query := `
		INSERT INTO user_missions (id, user_id, title, description, xp, coins, type, bonus_xp, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, id) DO NOTHING
	`
	for _, m := range missions {
		_, err := tx.Exec(ctx, query,
			m.ID, userID, m.Title, m.Description,
			m.XP, m.Coins, m.Type, m.BonusXP, m.Category,
		)
		if err != nil {
			return mapDBError(err, "insert_mission")
		}
	}
	return nil
}

func (r *missionRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapDBError(err, "begin_transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
