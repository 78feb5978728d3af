// Package user implements the User and UserSettings repositories using
// PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// Repo provides user and user-settings persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, email, name, password_hash, created_at, updated_at`

const getUserByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getUserByEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

const createUserSQL = `
INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

const updateUserNameSQL = `
UPDATE users
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

// ---------------------------------------------------------------------------
// User operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getUserByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return u, nil
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getUserByEmailSQL, email))
	if err != nil {
		return nil, mapError(err, "user", uuid.Nil)
	}
	return u, nil
}

// Create inserts a new user and returns the persisted domain.User.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanUser(q.QueryRow(ctx, createUserSQL,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt))
	if err != nil {
		return nil, mapError(err, "user", u.ID)
	}
	return created, nil
}

// UpdateName changes the user's display name.
func (r *Repo) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, updateUserNameSQL, id, name))
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return u, nil
}

// ---------------------------------------------------------------------------
// Settings operations
// ---------------------------------------------------------------------------

const settingsColumns = `user_id, timezone, language, accent_color, daily_goal,
	haptics_enabled, show_streak, show_heatmap, updated_at`

const getSettingsSQL = `
SELECT ` + settingsColumns + `
FROM user_settings
WHERE user_id = $1`

const createSettingsSQL = `
INSERT INTO user_settings (user_id, timezone, language, accent_color, daily_goal,
	haptics_enabled, show_streak, show_heatmap)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const updateSettingsSQL = `
UPDATE user_settings
SET timezone = $2, language = $3, accent_color = $4, daily_goal = $5,
	haptics_enabled = $6, show_streak = $7, show_heatmap = $8, updated_at = now()
WHERE user_id = $1
RETURNING ` + settingsColumns

// GetByUserID returns the settings row for a user.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSettings(q.QueryRow(ctx, getSettingsSQL, userID))
	if err != nil {
		return nil, mapError(err, "user_settings", userID)
	}
	return s, nil
}

// CreateSettings inserts the settings row for a fresh account.
func (r *Repo) CreateSettings(ctx context.Context, s *domain.UserSettings) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSettingsSQL,
		s.UserID, s.Timezone, s.Language, s.AccentColor, s.DailyGoal,
		s.HapticsEnabled, s.ShowStreak, s.ShowHeatmap)
	if err != nil {
		return mapError(err, "user_settings", s.UserID)
	}
	return nil
}

// UpdateSettings overwrites the settings row and returns the stored value.
func (r *Repo) UpdateSettings(ctx context.Context, userID uuid.UUID, s domain.UserSettings) (*domain.UserSettings, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanSettings(q.QueryRow(ctx, updateSettingsSQL,
		userID, s.Timezone, s.Language, s.AccentColor, s.DailyGoal,
		s.HapticsEnabled, s.ShowStreak, s.ShowHeatmap))
	if err != nil {
		return nil, mapError(err, "user_settings", userID)
	}
	return updated, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanSettings(row pgx.Row) (*domain.UserSettings, error) {
	var s domain.UserSettings
	err := row.Scan(
		&s.UserID,
		&s.Timezone,
		&s.Language,
		&s.AccentColor,
		&s.DailyGoal,
		&s.HapticsEnabled,
		&s.ShowStreak,
		&s.ShowHeatmap,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
