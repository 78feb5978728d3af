package activity

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// A memory needs a log with a little history behind it.
const memoryMinEntries = 3

const (
	memoryPreferredAge = 7 * 24 * time.Hour
	memoryFallbackAge  = 2 * 24 * time.Hour
)

// GetMemory resurfaces one past entry: an entry older than a week when
// any exist, otherwise one older than two days. Top-marked moments are
// preferred over ordinary ones, and the pick within the pool is random.
// Returns domain.ErrNotFound when the log is too young to have a memory.
func (s *Service) GetMemory(ctx context.Context) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	entries, err := s.entries.ListRecent(ctx, userID, s.cfg.EntryWindowSize)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) < memoryMinEntries {
		return nil, domain.ErrNotFound
	}

	now := s.now()
	candidates := entriesBefore(entries, now.Add(-memoryPreferredAge))
	if len(candidates) == 0 {
		candidates = entriesBefore(entries, now.Add(-memoryFallbackAge))
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNotFound
	}

	pool := topMarked(candidates)
	if len(pool) == 0 {
		pool = candidates
	}
	memory := pool[rand.IntN(len(pool))]

	s.log.InfoContext(ctx, "memory resurfaced",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", memory.ID.String()),
		slog.Int("pool", len(pool)),
	)

	return memory, nil
}

// entriesBefore filters to entries created strictly before the cutoff.
func entriesBefore(entries []*domain.Entry, cutoff time.Time) []*domain.Entry {
	var out []*domain.Entry
	for _, e := range entries {
		if e != nil && e.CreatedAt != nil && e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// topMarked filters to entries carrying any top-marker flag.
func topMarked(entries []*domain.Entry) []*domain.Entry {
	var out []*domain.Entry
	for _, e := range entries {
		if e.IsDailyTop || e.IsWeeklyTop || e.IsMonthlyTop {
			out = append(out, e)
		}
	}
	return out
}
