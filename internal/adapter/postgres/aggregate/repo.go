// Package aggregate implements the per-user activity aggregate
// repository using PostgreSQL.
//
// Per-day tag counts are stored as JSON arrays of {tag, count} objects
// rather than JSON objects: jsonb does not preserve object key order,
// and the dominant-tag tie-break depends on first-seen tag order.
package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// Repo provides aggregate persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new aggregate repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getAggregateSQL = `
SELECT user_id, daily_counts, daily_tag_counts, streak, last_update
FROM user_aggregates
WHERE user_id = $1`

const mergeCountsSQL = `
INSERT INTO user_aggregates (user_id, daily_counts, daily_tag_counts, streak, last_update)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE
SET daily_counts     = EXCLUDED.daily_counts,
    daily_tag_counts = EXCLUDED.daily_tag_counts,
    streak           = EXCLUDED.streak,
    last_update      = now()`

// tagCountJSON is the wire shape of one tag slot. The array order in
// the column is the first-seen order of the tags on that day.
type tagCountJSON struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Get returns the stored aggregate for the user, or domain.ErrNotFound
// when the user has none yet.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.Aggregate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		agg          domain.Aggregate
		countsRaw    []byte
		tagCountsRaw []byte
		lastUpdate   time.Time
	)
	err := q.QueryRow(ctx, getAggregateSQL, userID).Scan(
		&agg.UserID,
		&countsRaw,
		&tagCountsRaw,
		&agg.Streak,
		&lastUpdate,
	)
	if err != nil {
		return nil, mapError(err, "aggregate", userID)
	}
	agg.LastUpdate = lastUpdate

	if err := json.Unmarshal(countsRaw, &agg.DailyCounts); err != nil {
		return nil, fmt.Errorf("aggregate %s: decode daily_counts: %w", userID, err)
	}
	if agg.DailyCounts == nil {
		agg.DailyCounts = make(map[string]int)
	}

	agg.DailyTagCounts, err = decodeTagCounts(tagCountsRaw)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: decode daily_tag_counts: %w", userID, err)
	}

	return &agg, nil
}

// MergeCounts overwrites the counts fields and the cached streak of the
// user's aggregate row, creating the row if absent.
func (r *Repo) MergeCounts(ctx context.Context, userID uuid.UUID, counts map[string]int, tagCounts map[string]domain.TagCounts, streak int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countsRaw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("aggregate %s: encode daily_counts: %w", userID, err)
	}
	tagCountsRaw, err := encodeTagCounts(tagCounts)
	if err != nil {
		return fmt.Errorf("aggregate %s: encode daily_tag_counts: %w", userID, err)
	}

	if _, err := q.Exec(ctx, mergeCountsSQL, userID, countsRaw, tagCountsRaw, streak); err != nil {
		return mapError(err, "aggregate", userID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// JSON codec
// ---------------------------------------------------------------------------

func encodeTagCounts(tagCounts map[string]domain.TagCounts) ([]byte, error) {
	wire := make(map[string][]tagCountJSON, len(tagCounts))
	for day, tc := range tagCounts {
		slots := make([]tagCountJSON, 0, len(tc))
		for _, t := range tc {
			slots = append(slots, tagCountJSON{Tag: t.Tag, Count: t.Count})
		}
		wire[day] = slots
	}
	return json.Marshal(wire)
}

func decodeTagCounts(raw []byte) (map[string]domain.TagCounts, error) {
	var wire map[string][]tagCountJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	out := make(map[string]domain.TagCounts, len(wire))
	for day, slots := range wire {
		tc := make(domain.TagCounts, 0, len(slots))
		for _, s := range slots {
			tc = append(tc, domain.TagCount{Tag: s.Tag, Count: s.Count})
		}
		out[day] = tc
	}
	return out, nil
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
