package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// DeleteEntry removes an entry and applies the exact inverse of its
// creation delta, so an add followed by a delete leaves the aggregate
// where it started.
func (s *Service) DeleteEntry(ctx context.Context, input DeleteEntryInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	entry, err := s.entries.GetByID(ctx, userID, input.EntryID)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	loc := s.location(ctx, userID)
	dayKey := s.dayKeyOf(entry, loc)
	todayKey := DayKey(s.now(), loc)

	delta := domain.AggregateDelta{DayKey: dayKey, Count: 1, Tags: entry.Tags}.Inverse()

	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.ensureLoaded(ctx, userID, st); err != nil {
		return err
	}

	pending := st.add(delta)

	next := st.view(userID)
	next.Streak = CurrentStreak(next.DailyCounts, todayKey)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.entries.Delete(ctx, userID, input.EntryID); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		if err := s.aggregates.MergeCounts(ctx, userID, next.DailyCounts, next.DailyTagCounts, next.Streak); err != nil {
			return fmt.Errorf("merge aggregate: %w", err)
		}
		return nil
	})
	if err != nil {
		st.drop(pending)
		return err
	}

	st.confirm(userID, pending)
	st.base.Streak = next.Streak
	st.base.LastUpdate = s.now().UTC()

	s.log.InfoContext(ctx, "entry deleted",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", input.EntryID.String()),
		slog.String("day_key", dayKey),
	)

	return nil
}
