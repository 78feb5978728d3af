package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// MarkTop marks an entry as the top win of its day, week, or month.
// The marker is exclusive within the entry's own period: any other entry
// sharing that period key is demoted first. Demotions are best effort
// and a failed one is logged and skipped, so a partial pass can leave an
// extra marker behind; re-running the operation converges.
func (s *Service) MarkTop(ctx context.Context, input MarkTopInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	target, err := s.entries.GetByID(ctx, userID, input.EntryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if target.CreatedAt == nil {
		return nil, domain.NewValidationError("entry_id", "entry is not confirmed yet")
	}

	loc := s.location(ctx, userID)
	periodKey := PeriodKey(*target.CreatedAt, input.Granularity, loc)

	recent, err := s.entries.ListRecent(ctx, userID, s.cfg.EntryWindowSize)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	for _, e := range recent {
		if e.ID == target.ID || !e.TopFlag(input.Granularity) {
			continue
		}
		if e.CreatedAt == nil || PeriodKey(*e.CreatedAt, input.Granularity, loc) != periodKey {
			continue
		}
		if err := s.entries.SetTopFlag(ctx, userID, e.ID, input.Granularity, false); err != nil {
			s.log.WarnContext(ctx, "failed to demote previous top entry",
				slog.String("user_id", userID.String()),
				slog.String("entry_id", e.ID.String()),
				slog.String("granularity", string(input.Granularity)),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.entries.SetTopFlag(ctx, userID, target.ID, input.Granularity, true); err != nil {
		return nil, fmt.Errorf("set top flag: %w", err)
	}
	target.SetTopFlag(input.Granularity, true)

	s.log.InfoContext(ctx, "entry marked as top",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", target.ID.String()),
		slog.String("granularity", string(input.Granularity)),
		slog.String("period_key", periodKey),
	)

	return target, nil
}

// UnmarkTop clears the top marker from an entry.
func (s *Service) UnmarkTop(ctx context.Context, input MarkTopInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	target, err := s.entries.GetByID(ctx, userID, input.EntryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if err := s.entries.SetTopFlag(ctx, userID, target.ID, input.Granularity, false); err != nil {
		return nil, fmt.Errorf("clear top flag: %w", err)
	}
	target.SetTopFlag(input.Granularity, false)

	s.log.InfoContext(ctx, "top marker cleared",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", target.ID.String()),
		slog.String("granularity", string(input.Granularity)),
	)

	return target, nil
}
