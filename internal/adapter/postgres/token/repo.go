// Package token implements the RefreshToken repository using PostgreSQL.
package token

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

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createTokenSQL = `
INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
VALUES ($1, $2, $3, $4)`

const getTokenByHashSQL = `
SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
FROM refresh_tokens
WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`

const revokeTokenByIDSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE id = $1 AND revoked_at IS NULL`

const revokeAllByUserSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE user_id = $1 AND revoked_at IS NULL`

const deleteExpiredSQL = `
DELETE FROM refresh_tokens
WHERE expires_at < now() OR revoked_at IS NOT NULL`

// Create inserts a new refresh token.
func (r *Repo) Create(ctx context.Context, token *domain.RefreshToken) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := token.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := q.Exec(ctx, createTokenSQL, id, token.UserID, token.TokenHash, token.ExpiresAt)
	if err != nil {
		return mapError(err, "refresh_token", uuid.Nil)
	}
	return nil
}

// GetByHash returns an active (non-revoked, non-expired) refresh token by its hash.
// Returns domain.ErrNotFound if the token does not exist, is revoked, or is expired.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.RefreshToken
	err := q.QueryRow(ctx, getTokenByHashSQL, tokenHash).Scan(
		&t.ID,
		&t.UserID,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.RevokedAt,
	)
	if err != nil {
		return nil, mapError(err, "refresh_token", uuid.Nil)
	}
	return &t, nil
}

// RevokeByID revokes a specific refresh token by setting revoked_at.
// Idempotent: revoking an already-revoked token is not an error.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, revokeTokenByIDSQL, id); err != nil {
		return mapError(err, "refresh_token", id)
	}
	return nil
}

// RevokeAllByUser revokes all active refresh tokens for the given user.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, revokeAllByUserSQL, userID); err != nil {
		return mapError(err, "refresh_token", uuid.Nil)
	}
	return nil
}

// DeleteExpired removes all expired or revoked tokens from the database.
// Returns the count of deleted tokens.
// May delete many records; does not use a transaction.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteExpiredSQL)
	if err != nil {
		return 0, mapError(err, "refresh_token", uuid.Nil)
	}
	return int(tag.RowsAffected()), nil
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
