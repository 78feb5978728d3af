package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSettings is the per-user configuration that used to live in a
// global client-side provider. Timezone drives the engine's day-key
// computation; the rest is presentation preferences round-tripped for
// the clients.
type UserSettings struct {
	UserID         uuid.UUID
	Timezone       string
	Language       string
	AccentColor    string
	DailyGoal      int
	HapticsEnabled bool
	ShowStreak     bool
	ShowHeatmap    bool
	UpdatedAt      time.Time
}

// DefaultSettings returns the settings a fresh account starts with.
func DefaultSettings(userID uuid.UUID) UserSettings {
	return UserSettings{
		UserID:         userID,
		Timezone:       "UTC",
		Language:       "sk",
		AccentColor:    "#F97316",
		DailyGoal:      3,
		HapticsEnabled: true,
		ShowStreak:     true,
		ShowHeatmap:    true,
	}
}

// RefreshToken is a stored, hashed refresh token.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
