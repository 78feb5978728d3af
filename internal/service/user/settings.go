package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/pkg/ctxutil"
)

// GetSettings returns the authenticated user's settings.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) GetSettings(ctx context.Context) (*domain.UserSettings, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.GetSettings: %w", err)
	}

	return settings, nil
}

// UpdateSettings applies a partial update to the authenticated user's
// settings: only the fields present in the input change.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.UserSettings, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	current, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.UpdateSettings get current: %w", err)
	}

	next := applySettingsChanges(*current, input)

	updated, err := s.settings.UpdateSettings(ctx, userID, next)
	if err != nil {
		return nil, fmt.Errorf("user.UpdateSettings: %w", err)
	}

	s.log.InfoContext(ctx, "settings updated",
		slog.String("user_id", userID.String()))

	return updated, nil
}

// applySettingsChanges merges the input changes into current settings.
func applySettingsChanges(current domain.UserSettings, input UpdateSettingsInput) domain.UserSettings {
	result := current

	if input.Timezone != nil {
		result.Timezone = *input.Timezone
	}
	if input.Language != nil {
		result.Language = *input.Language
	}
	if input.AccentColor != nil {
		result.AccentColor = *input.AccentColor
	}
	if input.DailyGoal != nil {
		result.DailyGoal = *input.DailyGoal
	}
	if input.HapticsEnabled != nil {
		result.HapticsEnabled = *input.HapticsEnabled
	}
	if input.ShowStreak != nil {
		result.ShowStreak = *input.ShowStreak
	}
	if input.ShowHeatmap != nil {
		result.ShowHeatmap = *input.ShowHeatmap
	}

	return result
}
