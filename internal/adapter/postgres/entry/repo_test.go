package entry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

func newRepo(t *testing.T) (*entry.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return entry.New(pool), pool
}

func ptrTime(ts time.Time) *time.Time { return &ts }

// ---------------------------------------------------------------------------
// Create + GetByID
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)

	created, err := repo.Create(ctx, &domain.Entry{
		ID:     uuid.New(),
		UserID: user.ID,
		Text:   "Shipped the release #work",
		Tags:   []string{"#work"},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.CreatedAt == nil {
		t.Fatal("CreatedAt should be assigned by the database")
	}
	if created.UserID != user.ID {
		t.Errorf("UserID mismatch: got %s, want %s", created.UserID, user.ID)
	}
	if created.Text != "Shipped the release #work" {
		t.Errorf("Text mismatch: got %q", created.Text)
	}
	if len(created.Tags) != 1 || created.Tags[0] != "#work" {
		t.Errorf("Tags mismatch: got %v", created.Tags)
	}
	if created.IsDailyTop || created.IsWeeklyTop || created.IsMonthlyTop {
		t.Error("top flags should default to false")
	}

	got, err := repo.GetByID(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, created.ID)
	}
}

func TestRepo_Create_InvalidUserID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Create(context.Background(), &domain.Entry{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Text:   "orphan entry",
		Tags:   []string{},
	})
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	user := testhelper.SeedUser(t, pool)

	_, err := repo.GetByID(context.Background(), user.ID, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByID_OtherUsersEntryIsNotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	other := testhelper.SeedUser(t, pool)

	e := testhelper.SeedEntry(t, pool, owner.ID, "private note", time.Now().UTC())

	_, err := repo.GetByID(ctx, other.ID, e.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// ListRecent
// ---------------------------------------------------------------------------

func TestRepo_ListRecent_NewestFirstAndLimited(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	base := time.Now().UTC().Add(-1 * time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		e := testhelper.SeedEntry(t, pool, user.ID, "entry", base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, e.ID)
	}

	got, err := repo.ListRecent(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	// Newest first.
	if got[0].ID != ids[4] || got[1].ID != ids[3] || got[2].ID != ids[2] {
		t.Errorf("unexpected order: got %v, %v, %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestRepo_ListRecent_EmptyForNewUser(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	user := testhelper.SeedUser(t, pool)

	got, err := repo.ListRecent(context.Background(), user.ID, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// ListWindow
// ---------------------------------------------------------------------------

func TestRepo_ListWindow_TagFilter(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	now := time.Now().UTC()

	testhelper.SeedEntry(t, pool, user.ID, "morning run #run", now.Add(-3*time.Minute))
	testhelper.SeedEntry(t, pool, user.ID, "deep work #work", now.Add(-2*time.Minute))
	testhelper.SeedEntry(t, pool, user.ID, "evening run #run", now.Add(-1*time.Minute))

	got, total, err := repo.ListWindow(ctx, user.ID, domain.EntryFilter{Tag: "#run", Limit: 10})
	if err != nil {
		t.Fatalf("ListWindow: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "evening run #run" {
		t.Errorf("expected newest first, got %q", got[0].Text)
	}
}

func TestRepo_ListWindow_TimeRangeAndPaging(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		testhelper.SeedEntry(t, pool, user.ID, "entry", base.Add(time.Duration(i)*time.Hour))
	}

	from := base.Add(1 * time.Hour)
	to := base.Add(5 * time.Hour)

	// Half-open range [from, to): entries at +1h..+4h qualify.
	got, total, err := repo.ListWindow(ctx, user.ID, domain.EntryFilter{
		From:  ptrTime(from),
		To:    ptrTime(to),
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("ListWindow: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if len(got) != 2 {
		t.Fatalf("expected page of 2, got %d", len(got))
	}

	// Second page.
	got2, _, err := repo.ListWindow(ctx, user.ID, domain.EntryFilter{
		From:   ptrTime(from),
		To:     ptrTime(to),
		Limit:  2,
		Offset: 2,
	})
	if err != nil {
		t.Fatalf("ListWindow page 2: %v", err)
	}
	if len(got2) != 2 {
		t.Fatalf("expected page of 2, got %d", len(got2))
	}
	if got2[0].ID == got[0].ID || got2[0].ID == got[1].ID {
		t.Error("pages should not overlap")
	}
}

// ---------------------------------------------------------------------------
// UpdateText
// ---------------------------------------------------------------------------

func TestRepo_UpdateText_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	e := testhelper.SeedEntry(t, pool, user.ID, "old text", time.Now().UTC())

	if err := repo.UpdateText(ctx, user.ID, e.ID, "new text"); err != nil {
		t.Fatalf("UpdateText: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Text != "new text" {
		t.Errorf("Text mismatch: got %q, want %q", got.Text, "new text")
	}
	if !got.UpdatedAt.After(e.UpdatedAt) {
		t.Errorf("UpdatedAt should advance: got %v, was %v", got.UpdatedAt, e.UpdatedAt)
	}
}

func TestRepo_UpdateText_NotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	user := testhelper.SeedUser(t, pool)

	err := repo.UpdateText(context.Background(), user.ID, uuid.New(), "text")
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// SetTopFlag
// ---------------------------------------------------------------------------

func TestRepo_SetTopFlag_AllGranularities(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	e := testhelper.SeedEntry(t, pool, user.ID, "big win", time.Now().UTC())

	for _, g := range []domain.Granularity{domain.GranularityDay, domain.GranularityWeek, domain.GranularityMonth} {
		if err := repo.SetTopFlag(ctx, user.ID, e.ID, g, true); err != nil {
			t.Fatalf("SetTopFlag %s: %v", g, err)
		}
	}

	got, err := repo.GetByID(ctx, user.ID, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsDailyTop || !got.IsWeeklyTop || !got.IsMonthlyTop {
		t.Errorf("expected all top flags set, got daily=%v weekly=%v monthly=%v",
			got.IsDailyTop, got.IsWeeklyTop, got.IsMonthlyTop)
	}

	if err := repo.SetTopFlag(ctx, user.ID, e.ID, domain.GranularityWeek, false); err != nil {
		t.Fatalf("SetTopFlag clear: %v", err)
	}
	got, err = repo.GetByID(ctx, user.ID, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsWeeklyTop {
		t.Error("weekly flag should be cleared")
	}
	if !got.IsDailyTop || !got.IsMonthlyTop {
		t.Error("other flags should be untouched")
	}
}

func TestRepo_SetTopFlag_InvalidGranularity(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	user := testhelper.SeedUser(t, pool)
	e := testhelper.SeedEntry(t, pool, user.ID, "entry", time.Now().UTC())

	err := repo.SetTopFlag(context.Background(), user.ID, e.ID, domain.Granularity("YEAR"), true)
	assertIsDomainError(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestRepo_Delete_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	e := testhelper.SeedEntry(t, pool, user.ID, "to be removed", time.Now().UTC())

	if err := repo.Delete(ctx, user.ID, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.GetByID(ctx, user.ID, e.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Delete_OtherUsersEntry(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	other := testhelper.SeedUser(t, pool)
	e := testhelper.SeedEntry(t, pool, owner.ID, "not yours", time.Now().UTC())

	err := repo.Delete(ctx, other.ID, e.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)

	// Entry is still there for its owner.
	if _, err := repo.GetByID(ctx, owner.ID, e.ID); err != nil {
		t.Fatalf("GetByID after foreign delete attempt: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}
