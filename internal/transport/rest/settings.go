package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/internal/service/user"
)

// userService defines the profile and settings surface.
type userService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, input user.UpdateProfileInput) (*domain.User, error)
	GetSettings(ctx context.Context) (*domain.UserSettings, error)
	UpdateSettings(ctx context.Context, input user.UpdateSettingsInput) (*domain.UserSettings, error)
}

// SettingsHandler serves the profile and settings endpoints.
type SettingsHandler struct {
	svc userService
	log *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc userService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: logger.With("handler", "settings")}
}

type settingsResponse struct {
	Timezone       string `json:"timezone"`
	Language       string `json:"language"`
	AccentColor    string `json:"accentColor"`
	DailyGoal      int    `json:"dailyGoal"`
	HapticsEnabled bool   `json:"hapticsEnabled"`
	ShowStreak     bool   `json:"showStreak"`
	ShowHeatmap    bool   `json:"showHeatmap"`
}

type updateSettingsRequest struct {
	Timezone       *string `json:"timezone"`
	Language       *string `json:"language"`
	AccentColor    *string `json:"accentColor"`
	DailyGoal      *int    `json:"dailyGoal"`
	HapticsEnabled *bool   `json:"hapticsEnabled"`
	ShowStreak     *bool   `json:"showStreak"`
	ShowHeatmap    *bool   `json:"showHeatmap"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// GetSettings handles GET /v1/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSettings(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}

// UpdateSettings handles PATCH /v1/settings. Absent fields keep their
// current values.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s, err := h.svc.UpdateSettings(r.Context(), user.UpdateSettingsInput{
		Timezone:       req.Timezone,
		Language:       req.Language,
		AccentColor:    req.AccentColor,
		DailyGoal:      req.DailyGoal,
		HapticsEnabled: req.HapticsEnabled,
		ShowStreak:     req.ShowStreak,
		ShowHeatmap:    req.ShowHeatmap,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}

// GetProfile handles GET /v1/me.
func (h *SettingsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	})
}

// UpdateProfile handles PATCH /v1/me.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), user.UpdateProfileInput{Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	})
}

func toSettingsResponse(s *domain.UserSettings) settingsResponse {
	return settingsResponse{
		Timezone:       s.Timezone,
		Language:       s.Language,
		AccentColor:    s.AccentColor,
		DailyGoal:      s.DailyGoal,
		HapticsEnabled: s.HapticsEnabled,
		ShowStreak:     s.ShowStreak,
		ShowHeatmap:    s.ShowHeatmap,
	}
}
