package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// AddEntry records a new achievement. The entry and the owner's
// aggregate are persisted in one transaction; the in-memory view is
// updated optimistically first and rolled back if the store rejects the
// write.
func (s *Service) AddEntry(ctx context.Context, input AddEntryInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.Text)
	now := s.now()
	loc := s.location(ctx, userID)
	dayKey := DayKey(now, loc)

	entry := &domain.Entry{
		ID:     uuid.New(),
		UserID: userID,
		Text:   text,
		Tags:   domain.ExtractTags(text),
	}

	delta := domain.AggregateDelta{DayKey: dayKey, Count: 1, Tags: entry.Tags}

	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.ensureLoaded(ctx, userID, st); err != nil {
		return nil, err
	}

	pending := st.add(delta)

	var (
		created *domain.Entry
		next    *domain.Aggregate
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.entries.Create(ctx, entry)
		if err != nil {
			return fmt.Errorf("create entry: %w", err)
		}

		// The optimistic delta was keyed by the local clock; the stored
		// row carries the server clock. Re-key the delta when the two
		// straddle midnight, so the count lands on the day the entry
		// actually belongs to.
		if created.CreatedAt != nil {
			if serverKey := DayKey(*created.CreatedAt, loc); serverKey != dayKey {
				pending.delta.DayKey = serverKey
				dayKey = serverKey
			}
		}

		next = st.view(userID)
		next.Streak = CurrentStreak(next.DailyCounts, dayKey)
		if err := s.aggregates.MergeCounts(ctx, userID, next.DailyCounts, next.DailyTagCounts, next.Streak); err != nil {
			return fmt.Errorf("merge aggregate: %w", err)
		}
		return nil
	})
	if err != nil {
		st.drop(pending)
		return nil, err
	}

	st.confirm(userID, pending)
	st.base.Streak = next.Streak
	st.base.LastUpdate = now.UTC()

	s.log.InfoContext(ctx, "entry added",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", created.ID.String()),
		slog.String("day_key", dayKey),
		slog.Int("tags", len(entry.Tags)),
	)

	return created, nil
}

// dayKeyOf returns the entry's day key in the owner's timezone. An
// unconfirmed entry without a creation timestamp falls back to now.
func (s *Service) dayKeyOf(e *domain.Entry, loc *time.Location) string {
	if e.CreatedAt == nil {
		return DayKey(s.now(), loc)
	}
	return DayKey(*e.CreatedAt, loc)
}
