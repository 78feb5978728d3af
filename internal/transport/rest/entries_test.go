package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/internal/service/activity"
)

type activityServiceMock struct {
	AddEntryFunc        func(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error)
	GetEntryFunc        func(ctx context.Context, input activity.GetEntryInput) (*domain.Entry, error)
	GetMemoryFunc       func(ctx context.Context) (*domain.Entry, error)
	ListEntriesFunc     func(ctx context.Context, input activity.ListEntriesInput) ([]*domain.Entry, int, error)
	UpdateEntryTextFunc func(ctx context.Context, input activity.UpdateEntryTextInput) (*domain.Entry, error)
	DeleteEntryFunc     func(ctx context.Context, input activity.DeleteEntryInput) error
	MarkTopFunc         func(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error)
	UnmarkTopFunc       func(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error)
}

func (m *activityServiceMock) AddEntry(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error) {
	return m.AddEntryFunc(ctx, input)
}

func (m *activityServiceMock) GetEntry(ctx context.Context, input activity.GetEntryInput) (*domain.Entry, error) {
	return m.GetEntryFunc(ctx, input)
}

func (m *activityServiceMock) GetMemory(ctx context.Context) (*domain.Entry, error) {
	return m.GetMemoryFunc(ctx)
}

func (m *activityServiceMock) ListEntries(ctx context.Context, input activity.ListEntriesInput) ([]*domain.Entry, int, error) {
	return m.ListEntriesFunc(ctx, input)
}

func (m *activityServiceMock) UpdateEntryText(ctx context.Context, input activity.UpdateEntryTextInput) (*domain.Entry, error) {
	return m.UpdateEntryTextFunc(ctx, input)
}

func (m *activityServiceMock) DeleteEntry(ctx context.Context, input activity.DeleteEntryInput) error {
	return m.DeleteEntryFunc(ctx, input)
}

func (m *activityServiceMock) MarkTop(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error) {
	return m.MarkTopFunc(ctx, input)
}

func (m *activityServiceMock) UnmarkTop(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error) {
	return m.UnmarkTopFunc(ctx, input)
}

func (m *activityServiceMock) TagColor(tag string) string {
	return "#FF6B6B"
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEntry(text string, tags ...string) *domain.Entry {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Entry{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Text:      text,
		Tags:      tags,
		CreatedAt: &now,
		UpdatedAt: now,
	}
}

func TestEntries_Create(t *testing.T) {
	t.Parallel()

	var gotInput activity.AddEntryInput
	mock := &activityServiceMock{
		AddEntryFunc: func(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error) {
			gotInput = input
			return testEntry(input.Text, "#work"), nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/entries", strings.NewReader(`{"text":"Shipped it #work"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.Text != "Shipped it #work" {
		t.Errorf("input text mismatch: got %q", gotInput.Text)
	}

	var resp entryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "Shipped it #work" {
		t.Errorf("response text mismatch: got %q", resp.Text)
	}
	if len(resp.Tags) != 1 || resp.Tags[0].Name != "#work" || resp.Tags[0].Color != "#FF6B6B" {
		t.Errorf("expected colored tag in response, got %v", resp.Tags)
	}
}

func TestEntries_Create_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewEntryHandler(&activityServiceMock{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/entries", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestEntries_Create_ValidationErrorHasFields(t *testing.T) {
	t.Parallel()

	mock := &activityServiceMock{
		AddEntryFunc: func(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error) {
			return nil, domain.NewValidationError("text", "is required")
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/entries", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp struct {
		Error  string               `json:"error"`
		Fields []fieldErrorResponse `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "text" {
		t.Errorf("expected field error for 'text', got %+v", resp.Fields)
	}
}

func TestEntries_Create_Unauthorized(t *testing.T) {
	t.Parallel()

	mock := &activityServiceMock{
		AddEntryFunc: func(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/entries", strings.NewReader(`{"text":"x"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestEntries_List_PassesQueryParams(t *testing.T) {
	t.Parallel()

	var gotInput activity.ListEntriesInput
	mock := &activityServiceMock{
		ListEntriesFunc: func(ctx context.Context, input activity.ListEntriesInput) ([]*domain.Entry, int, error) {
			gotInput = input
			return []*domain.Entry{testEntry("run #run", "#run")}, 7, nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/entries?tag=%23run&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotInput.Tag != "#run" || gotInput.Limit != 10 || gotInput.Offset != 20 {
		t.Errorf("input mismatch: %+v", gotInput)
	}

	var resp entryListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 7 || len(resp.Entries) != 1 {
		t.Errorf("unexpected list response: total=%d entries=%d", resp.Total, len(resp.Entries))
	}
}

func TestEntries_List_BadLimit(t *testing.T) {
	t.Parallel()

	h := NewEntryHandler(&activityServiceMock{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/entries?limit=abc", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestEntries_Memory(t *testing.T) {
	t.Parallel()

	mock := &activityServiceMock{
		GetMemoryFunc: func(ctx context.Context) (*domain.Entry, error) {
			e := testEntry("remember this #milestone", "#milestone")
			e.IsWeeklyTop = true
			return e, nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/entries/memory", nil)
	rec := httptest.NewRecorder()

	h.Memory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp entryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "remember this #milestone" || !resp.IsWeeklyTop {
		t.Errorf("unexpected memory response: %+v", resp)
	}
}

func TestEntries_Memory_NoneYet(t *testing.T) {
	t.Parallel()

	mock := &activityServiceMock{
		GetMemoryFunc: func(ctx context.Context) (*domain.Entry, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/entries/memory", nil)
	rec := httptest.NewRecorder()

	h.Memory(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestEntries_Delete(t *testing.T) {
	t.Parallel()

	entryID := uuid.New()
	var gotID uuid.UUID
	mock := &activityServiceMock{
		DeleteEntryFunc: func(ctx context.Context, input activity.DeleteEntryInput) error {
			gotID = input.EntryID
			return nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/entries/"+entryID.String(), nil)
	req.SetPathValue("id", entryID.String())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if gotID != entryID {
		t.Errorf("entry ID mismatch: got %s, want %s", gotID, entryID)
	}
}

func TestEntries_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock := &activityServiceMock{
		DeleteEntryFunc: func(ctx context.Context, input activity.DeleteEntryInput) error {
			return domain.ErrNotFound
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/entries/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestEntries_Delete_InvalidID(t *testing.T) {
	t.Parallel()

	h := NewEntryHandler(&activityServiceMock{}, discardLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/entries/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestEntries_MarkTop(t *testing.T) {
	t.Parallel()

	entryID := uuid.New()
	var gotInput activity.MarkTopInput
	mock := &activityServiceMock{
		MarkTopFunc: func(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error) {
			gotInput = input
			e := testEntry("big win")
			e.ID = input.EntryID
			e.IsWeeklyTop = true
			return e, nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/entries/"+entryID.String()+"/top",
		strings.NewReader(`{"granularity":"WEEK"}`))
	req.SetPathValue("id", entryID.String())
	rec := httptest.NewRecorder()

	h.MarkTop(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.EntryID != entryID || gotInput.Granularity != domain.GranularityWeek {
		t.Errorf("input mismatch: %+v", gotInput)
	}

	var resp entryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsWeeklyTop {
		t.Error("expected isWeeklyTop in response")
	}
}

func TestEntries_UnmarkTop_GranularityFromQuery(t *testing.T) {
	t.Parallel()

	entryID := uuid.New()
	var gotInput activity.MarkTopInput
	mock := &activityServiceMock{
		UnmarkTopFunc: func(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error) {
			gotInput = input
			return testEntry("big win"), nil
		},
	}
	h := NewEntryHandler(mock, discardLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/entries/"+entryID.String()+"/top?granularity=DAY", nil)
	req.SetPathValue("id", entryID.String())
	rec := httptest.NewRecorder()

	h.UnmarkTop(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotInput.Granularity != domain.GranularityDay {
		t.Errorf("granularity mismatch: got %q", gotInput.Granularity)
	}
}
