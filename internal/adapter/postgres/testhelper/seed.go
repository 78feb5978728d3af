package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user and user_settings with default values.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "testuser-" + suffix + "@example.com",
		Name:         "Test User " + suffix,
		PasswordHash: "$2a$04$seedseedseedseedseedseedseedseedseedseedseedseedseed",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	settings := domain.DefaultSettings(user.ID)
	settings.UpdatedAt = now

	_, err = pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, timezone, language, accent_color, daily_goal, haptics_enabled, show_streak, show_heatmap, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		settings.UserID, settings.Timezone, settings.Language, settings.AccentColor,
		settings.DailyGoal, settings.HapticsEnabled, settings.ShowStreak, settings.ShowHeatmap, settings.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user_settings: %v", err)
	}

	return user
}

// SeedEntry creates an entry for the user with the given text and creation time.
// Tags are derived from the text the same way the service does it.
// Returns a filled domain.Entry.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, text string, createdAt time.Time) domain.Entry {
	t.Helper()
	ctx := context.Background()

	createdAt = createdAt.UTC().Truncate(time.Microsecond)
	entry := domain.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Tags:      domain.ExtractTags(text),
		CreatedAt: &createdAt,
		UpdatedAt: createdAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO entries (id, user_id, text, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.Text, entry.Tags, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert entry: %v", err)
	}

	return entry
}

// SeedRefreshToken stores a refresh token row for the user.
// Returns the stored domain.RefreshToken.
func SeedRefreshToken(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, hash string, expiresAt time.Time) domain.RefreshToken {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	token := domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt.UTC().Truncate(time.Microsecond),
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRefreshToken insert: %v", err)
	}

	return token
}
