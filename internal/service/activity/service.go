// Package activity implements the achievement log engine: entry
// lifecycle, the optimistically-maintained per-owner aggregate, streak
// and heatmap projections, drift reconciliation against the entry log,
// and period-exclusive top markers.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/config"
	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	// Create inserts the entry and returns it with the server-assigned
	// creation timestamp.
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	// ListRecent returns up to limit newest entries, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Entry, error)
	// ListWindow returns a filtered page of entries plus the total count.
	ListWindow(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) ([]*domain.Entry, int, error)
	UpdateText(ctx context.Context, userID, entryID uuid.UUID, text string) error
	SetTopFlag(ctx context.Context, userID, entryID uuid.UUID, g domain.Granularity, value bool) error
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
}

type aggregateRepo interface {
	// Get returns the persisted aggregate, or domain.ErrNotFound when
	// the owner has none yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Aggregate, error)
	// MergeCounts overwrites the counts fields and the cached streak of
	// the owner's aggregate document, leaving any other fields intact,
	// and bumps last_update.
	MergeCounts(ctx context.Context, userID uuid.UUID, counts map[string]int, tagCounts map[string]domain.TagCounts, streak int) error
}

type settingsRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service is the activity engine's orchestrator. It owns the in-memory
// view of each owner's aggregate (confirmed base plus pending optimistic
// deltas) and serializes all mutations per owner.
type Service struct {
	entries    entryRepo
	aggregates aggregateRepo
	settings   settingsRepo
	tx         txManager
	log        *slog.Logger
	cfg        config.ActivityConfig

	mu     sync.Mutex
	owners map[uuid.UUID]*ownerState

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates the activity service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	aggregates aggregateRepo,
	settings settingsRepo,
	tx txManager,
	cfg config.ActivityConfig,
) *Service {
	return &Service{
		entries:    entries,
		aggregates: aggregates,
		settings:   settings,
		tx:         tx,
		log:        log.With("service", "activity"),
		cfg:        cfg,
		owners:     make(map[uuid.UUID]*ownerState),
		now:        time.Now,
	}
}

// location resolves the owner's timezone for day-key computation.
// Missing settings or an invalid zone degrade to UTC rather than failing
// the operation.
func (s *Service) location(ctx context.Context, userID uuid.UUID) *time.Location {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return time.UTC
	}
	return ParseTimezone(settings.Timezone)
}

// dailyGoal returns the owner's configured daily goal (0 when unknown).
func (s *Service) dailyGoal(ctx context.Context, userID uuid.UUID) int {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return 0
	}
	return settings.DailyGoal
}
