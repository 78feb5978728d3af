package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Entries  *EntryHandler
	Stats    *StatsHandler
	Settings *SettingsHandler
	Health   *HealthHandler
}

// NewRouter mounts all REST routes on a fresh mux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", h.Auth.Logout)

	mux.HandleFunc("GET /v1/entries", h.Entries.List)
	mux.HandleFunc("POST /v1/entries", h.Entries.Create)
	mux.HandleFunc("GET /v1/entries/memory", h.Entries.Memory)
	mux.HandleFunc("GET /v1/entries/{id}", h.Entries.Get)
	mux.HandleFunc("PATCH /v1/entries/{id}", h.Entries.Update)
	mux.HandleFunc("DELETE /v1/entries/{id}", h.Entries.Delete)
	mux.HandleFunc("POST /v1/entries/{id}/top", h.Entries.MarkTop)
	mux.HandleFunc("DELETE /v1/entries/{id}/top", h.Entries.UnmarkTop)

	mux.HandleFunc("GET /v1/stats/dashboard", h.Stats.Dashboard)
	mux.HandleFunc("GET /v1/stats/heatmap", h.Stats.Heatmap)

	mux.HandleFunc("GET /v1/settings", h.Settings.GetSettings)
	mux.HandleFunc("PATCH /v1/settings", h.Settings.UpdateSettings)
	mux.HandleFunc("GET /v1/me", h.Settings.GetProfile)
	mux.HandleFunc("PATCH /v1/me", h.Settings.UpdateProfile)

	return mux
}
