package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/internal/service/activity"
)

// activityService defines the entry-facing surface of the activity engine.
type activityService interface {
	AddEntry(ctx context.Context, input activity.AddEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, input activity.GetEntryInput) (*domain.Entry, error)
	GetMemory(ctx context.Context) (*domain.Entry, error)
	ListEntries(ctx context.Context, input activity.ListEntriesInput) ([]*domain.Entry, int, error)
	UpdateEntryText(ctx context.Context, input activity.UpdateEntryTextInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, input activity.DeleteEntryInput) error
	MarkTop(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error)
	UnmarkTop(ctx context.Context, input activity.MarkTopInput) (*domain.Entry, error)
	TagColor(tag string) string
}

// EntryHandler serves the entry CRUD and top-marker endpoints.
type EntryHandler struct {
	svc activityService
	log *slog.Logger
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(svc activityService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: logger.With("handler", "entries")}
}

type createEntryRequest struct {
	Text string `json:"text"`
}

type updateEntryRequest struct {
	Text string `json:"text"`
}

type markTopRequest struct {
	Granularity string `json:"granularity"`
}

type tagResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type entryResponse struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	Tags         []tagResponse `json:"tags"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	IsDailyTop   bool          `json:"isDailyTop"`
	IsWeeklyTop  bool          `json:"isWeeklyTop"`
	IsMonthlyTop bool          `json:"isMonthlyTop"`
}

type entryListResponse struct {
	Entries []entryResponse `json:"entries"`
	Total   int             `json:"total"`
}

// List handles GET /v1/entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, offset := 0, 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	entries, total, err := h.svc.ListEntries(r.Context(), activity.ListEntriesInput{
		Tag:    q.Get("tag"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := entryListResponse{
		Entries: make([]entryResponse, 0, len(entries)),
		Total:   total,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, h.toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /v1/entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.svc.AddEntry(r.Context(), activity.AddEntryInput{Text: req.Text})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toEntryResponse(entry))
}

// Get handles GET /v1/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), activity.GetEntryInput{EntryID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntryResponse(entry))
}

// Memory handles GET /v1/entries/memory. A 404 means the log is too
// young to resurface anything yet.
func (h *EntryHandler) Memory(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetMemory(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntryResponse(entry))
}

// Update handles PATCH /v1/entries/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.svc.UpdateEntryText(r.Context(), activity.UpdateEntryTextInput{
		EntryID: id,
		Text:    req.Text,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntryResponse(entry))
}

// Delete handles DELETE /v1/entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), activity.DeleteEntryInput{EntryID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkTop handles POST /v1/entries/{id}/top.
func (h *EntryHandler) MarkTop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req markTopRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.svc.MarkTop(r.Context(), activity.MarkTopInput{
		EntryID:     id,
		Granularity: domain.Granularity(req.Granularity),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntryResponse(entry))
}

// UnmarkTop handles DELETE /v1/entries/{id}/top?granularity=DAY.
func (h *EntryHandler) UnmarkTop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.UnmarkTop(r.Context(), activity.MarkTopInput{
		EntryID:     id,
		Granularity: domain.Granularity(r.URL.Query().Get("granularity")),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntryResponse(entry))
}

func (h *EntryHandler) toEntryResponse(e *domain.Entry) entryResponse {
	tags := make([]tagResponse, 0, len(e.Tags))
	for _, tag := range e.Tags {
		tags = append(tags, tagResponse{Name: tag, Color: h.svc.TagColor(tag)})
	}
	return entryResponse{
		ID:           e.ID.String(),
		Text:         e.Text,
		Tags:         tags,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		IsDailyTop:   e.IsDailyTop,
		IsWeeklyTop:  e.IsWeeklyTop,
		IsMonthlyTop: e.IsMonthlyTop,
	}
}

// pathID parses the {id} path segment as a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}
