package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// UpdateEntryText edits an entry's text in place. Tags are not
// re-extracted: the aggregate keeps the tag set captured at creation, so
// a text edit never shifts historical tag counts.
func (s *Service) UpdateEntryText(ctx context.Context, input UpdateEntryTextInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.entries.GetByID(ctx, userID, input.EntryID); err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if err := s.entries.UpdateText(ctx, userID, input.EntryID, strings.TrimSpace(input.Text)); err != nil {
		return nil, fmt.Errorf("update entry text: %w", err)
	}

	entry, err := s.entries.GetByID(ctx, userID, input.EntryID)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}

	s.log.InfoContext(ctx, "entry text updated",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", input.EntryID.String()),
	)

	return entry, nil
}
