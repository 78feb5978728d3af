// Package entry implements the Entry repository using PostgreSQL.
package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryColumns = `id, user_id, text, tags, created_at, updated_at,
	is_daily_top, is_weekly_top, is_monthly_top`

const createEntrySQL = `
INSERT INTO entries (id, user_id, text, tags)
VALUES ($1, $2, $3, $4)
RETURNING ` + entryColumns

const getEntrySQL = `
SELECT ` + entryColumns + `
FROM entries
WHERE id = $1 AND user_id = $2`

const listRecentSQL = `
SELECT ` + entryColumns + `
FROM entries
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

const updateTextSQL = `
UPDATE entries
SET text = $3, updated_at = now()
WHERE id = $1 AND user_id = $2`

const deleteEntrySQL = `
DELETE FROM entries
WHERE id = $1 AND user_id = $2`

// Create inserts a new entry and returns it with the server-assigned
// timestamps.
func (r *Repo) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createEntrySQL, e.ID, e.UserID, e.Text, e.Tags)
	created, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err, "entry", e.ID)
	}
	return created, nil
}

// GetByID returns an entry owned by the given user.
func (r *Repo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getEntrySQL, entryID, userID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err, "entry", entryID)
	}
	return e, nil
}

// ListRecent returns up to limit newest entries, newest first.
func (r *Repo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listRecentSQL, userID, limit)
	if err != nil {
		return nil, mapError(err, "entry", uuid.Nil)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListWindow returns a filtered page of entries plus the total count.
// The filter is assembled dynamically: tag membership and creation-time
// bounds are optional.
func (r *Repo) ListWindow(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) ([]*domain.Entry, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	where := squirrel.And{squirrel.Eq{"user_id": userID}}
	if f.Tag != "" {
		where = append(where, squirrel.Expr("? = ANY(tags)", f.Tag))
	}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		where = append(where, squirrel.Lt{"created_at": *f.To})
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	countSQL, countArgs, err := builder.
		Select("COUNT(*)").
		From("entries").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "entry", uuid.Nil)
	}

	listQuery := builder.
		Select(entryColumns).
		From("entries").
		Where(where).
		OrderBy("created_at DESC, id DESC").
		Offset(uint64(f.Offset))
	if f.Limit > 0 {
		listQuery = listQuery.Limit(uint64(f.Limit))
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, mapError(err, "entry", uuid.Nil)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// UpdateText changes the entry's text. Tags are intentionally left as
// captured at creation.
func (r *Repo) UpdateText(ctx context.Context, userID, entryID uuid.UUID, text string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateTextSQL, entryID, userID, text)
	if err != nil {
		return mapError(err, "entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "entry", entryID)
	}
	return nil
}

// SetTopFlag sets one of the three top-marker flags.
func (r *Repo) SetTopFlag(ctx context.Context, userID, entryID uuid.UUID, g domain.Granularity, value bool) error {
	var column string
	switch g {
	case domain.GranularityDay:
		column = "is_daily_top"
	case domain.GranularityWeek:
		column = "is_weekly_top"
	case domain.GranularityMonth:
		column = "is_monthly_top"
	default:
		return fmt.Errorf("entry %s: %w", entryID, domain.ErrValidation)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := fmt.Sprintf(`UPDATE entries SET %s = $3, updated_at = now() WHERE id = $1 AND user_id = $2`, column)
	tag, err := q.Exec(ctx, sql, entryID, userID, value)
	if err != nil {
		return mapError(err, "entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "entry", entryID)
	}
	return nil
}

// Delete removes the entry.
func (r *Repo) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteEntrySQL, entryID, userID)
	if err != nil {
		return mapError(err, "entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "entry", entryID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Text,
		&e.Tags,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.IsDailyTop,
		&e.IsWeeklyTop,
		&e.IsMonthlyTop,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapError(err, "entry", uuid.Nil)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "entry", uuid.Nil)
	}
	return entries, nil
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
