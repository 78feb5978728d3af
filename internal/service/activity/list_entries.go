package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// ListEntries returns a page of the owner's entries, newest first,
// optionally filtered by tag.
func (s *Service) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	entries, total, err := s.entries.ListWindow(ctx, userID, domain.EntryFilter{
		Tag:    input.Tag,
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	s.log.InfoContext(ctx, "entries listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(entries)),
		slog.Int("total", total),
	)

	return entries, total, nil
}

// GetEntry returns one entry owned by the caller.
func (s *Service) GetEntry(ctx context.Context, input GetEntryInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.entries.GetByID(ctx, userID, input.EntryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}
