// Package user implements profile and settings operations.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
}

// settingsRepo defines the settings repository interface needed by user service.
type settingsRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, s domain.UserSettings) (*domain.UserSettings, error)
}

// Service implements user profile and settings operations.
type Service struct {
	log      *slog.Logger
	users    userRepo
	settings settingsRepo
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo, settings settingsRepo) *Service {
	return &Service{
		log:      logger.With("service", "user"),
		users:    users,
		settings: settings,
	}
}
