package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// refresh re-reads the owner's persisted aggregate, absorbs it into the
// base, and heals the result against the recent entry window. Healed
// state is persisted before it is returned, so a repaired count survives
// a restart. Drift is expected under optimistic writes and is logged as
// a routine event.
// Must be called with st.mu held.
func (s *Service) refresh(ctx context.Context, userID uuid.UUID, st *ownerState) (*domain.Aggregate, error) {
	if err := s.loadFresh(ctx, userID, st); err != nil {
		return nil, err
	}

	loc := s.location(ctx, userID)
	todayKey := DayKey(s.now(), loc)

	entries, err := s.entries.ListRecent(ctx, userID, s.cfg.EntryWindowSize)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	agg := st.view(userID)
	healed := Reconcile(entries, agg, loc, s.cfg.ReconcileSampleSize)
	agg.Streak = CurrentStreak(agg.DailyCounts, todayKey)

	if healed || agg.Streak != st.base.Streak {
		if err := s.aggregates.MergeCounts(ctx, userID, agg.DailyCounts, agg.DailyTagCounts, agg.Streak); err != nil {
			return nil, fmt.Errorf("persist healed aggregate: %w", err)
		}
		st.base = agg.Clone()
		st.pending = nil
		if healed {
			s.log.InfoContext(ctx, "aggregate drift healed",
				slog.String("user_id", userID.String()),
				slog.Int("window", len(entries)),
			)
		}
	}

	return agg, nil
}

// GetStreak returns the owner's current consecutive-day streak.
func (s *Service) GetStreak(ctx context.Context) (int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	agg, err := s.refresh(ctx, userID, st)
	if err != nil {
		return 0, err
	}
	return agg.Streak, nil
}

// GetHeatmap returns the trailing activity window as day cells, oldest
// first. WindowDays 0 uses the configured default; requests above the
// configured maximum are clamped.
func (s *Service) GetHeatmap(ctx context.Context, input HeatmapInput) ([]HeatmapCell, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	windowDays := input.WindowDays
	if windowDays == 0 {
		windowDays = s.cfg.HeatmapWindowDays
	}
	if windowDays > s.cfg.MaxHeatmapWindowDays {
		windowDays = s.cfg.MaxHeatmapWindowDays
	}

	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	agg, err := s.refresh(ctx, userID, st)
	if err != nil {
		return nil, err
	}

	loc := s.location(ctx, userID)
	todayKey := DayKey(s.now(), loc)
	return BuildHeatmap(agg.DailyCounts, agg.DailyTagCounts, windowDays, todayKey), nil
}

// GetDashboard returns the owner's streak, today's count, and goal
// progress in one call.
func (s *Service) GetDashboard(ctx context.Context) (domain.Dashboard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Dashboard{}, domain.ErrUnauthorized
	}

	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	agg, err := s.refresh(ctx, userID, st)
	if err != nil {
		return domain.Dashboard{}, err
	}

	loc := s.location(ctx, userID)
	todayKey := DayKey(s.now(), loc)
	goal := s.dailyGoal(ctx, userID)
	todayCount := agg.DailyCounts[todayKey]

	dashboard := domain.Dashboard{
		Streak:      agg.Streak,
		TodayKey:    todayKey,
		TodayCount:  todayCount,
		DailyGoal:   goal,
		GoalReached: goal > 0 && todayCount >= goal,
	}

	s.log.InfoContext(ctx, "dashboard loaded",
		slog.String("user_id", userID.String()),
		slog.Int("streak", dashboard.Streak),
		slog.Int("today_count", todayCount),
	)

	return dashboard, nil
}

// TagColor returns the stable display color for a tag.
func (s *Service) TagColor(tag string) string {
	return ColorFor(tag)
}

// ReconcileOwner recounts the owner's entire entry log, page by page,
// and heals the aggregate against the full tally. Unlike the
// request-path refresh it is not bounded by the recent-entry window, so
// drift older than the window is repaired too. Used by the offline
// backfill job.
func (s *Service) ReconcileOwner(ctx context.Context, userID uuid.UUID) error {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadFresh(ctx, userID, st); err != nil {
		return err
	}

	loc := s.location(ctx, userID)
	pageSize := s.cfg.EntryWindowSize
	if pageSize <= 0 {
		pageSize = 500
	}

	// Tally the whole log before applying the raise rule, so a day whose
	// entries straddle a page boundary is counted whole.
	tally := newObserved()
	scanned := 0
	for offset := 0; ; offset += pageSize {
		page, total, err := s.entries.ListWindow(ctx, userID, domain.EntryFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("list entries page: %w", err)
		}
		tally.tally(page, loc)
		scanned += len(page)
		if len(page) == 0 || scanned >= total {
			break
		}
	}

	agg := st.view(userID)
	healed := tally.apply(agg)
	agg.Streak = CurrentStreak(agg.DailyCounts, DayKey(s.now(), loc))

	if healed || agg.Streak != st.base.Streak {
		if err := s.aggregates.MergeCounts(ctx, userID, agg.DailyCounts, agg.DailyTagCounts, agg.Streak); err != nil {
			return fmt.Errorf("persist backfilled aggregate: %w", err)
		}
		st.base = agg.Clone()
		st.pending = nil
		s.log.InfoContext(ctx, "aggregate backfilled",
			slog.String("user_id", userID.String()),
			slog.Int("entries_scanned", scanned),
		)
	}

	return nil
}
