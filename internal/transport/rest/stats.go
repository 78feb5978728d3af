package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
	"github.com/heartmarshall/victorylog-backend/internal/service/activity"
)

// statsService defines the read-side surface of the activity engine.
type statsService interface {
	GetDashboard(ctx context.Context) (domain.Dashboard, error)
	GetHeatmap(ctx context.Context, input activity.HeatmapInput) ([]activity.HeatmapCell, error)
}

// StatsHandler serves the dashboard and heatmap endpoints.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "stats")}
}

type dashboardResponse struct {
	Streak      int    `json:"streak"`
	TodayKey    string `json:"todayKey"`
	TodayCount  int    `json:"todayCount"`
	DailyGoal   int    `json:"dailyGoal"`
	GoalReached bool   `json:"goalReached"`
}

type heatmapCellResponse struct {
	Day   string  `json:"day"`
	Count int     `json:"count"`
	Color *string `json:"color,omitempty"`
}

type heatmapResponse struct {
	Days []heatmapCellResponse `json:"days"`
}

// Dashboard handles GET /v1/stats/dashboard.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Streak:      d.Streak,
		TodayKey:    d.TodayKey,
		TodayCount:  d.TodayCount,
		DailyGoal:   d.DailyGoal,
		GoalReached: d.GoalReached,
	})
}

// Heatmap handles GET /v1/stats/heatmap?days=N.
func (h *StatsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	cells, err := h.svc.GetHeatmap(r.Context(), activity.HeatmapInput{WindowDays: days})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := heatmapResponse{Days: make([]heatmapCellResponse, 0, len(cells))}
	for _, c := range cells {
		resp.Days = append(resp.Days, heatmapCellResponse{
			Day:   c.DayKey,
			Count: c.Count,
			Color: c.DominantTagColor,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
