package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/service"
)

// DashboardHandler serves the settings page, the dashboard stats and the
// health probe.
type DashboardHandler struct {
	stats    *service.StatsService
	settings *service.SettingsService
	pinger   Pinger
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewDashboardHandler(stats *service.StatsService, settings *service.SettingsService, pinger Pinger) *DashboardHandler {
	return &DashboardHandler{stats: stats, settings: settings, pinger: pinger}
}

// HandleStats: GET /api/stats
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleGetSettings: GET /api/settings
// The API key is never returned, only a mask and hasApiKey.
func (h *DashboardHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	view, err := h.settings.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleUpdateSettings: PUT /api/settings
// Partial update; absent fields keep their stored value.
func (h *DashboardHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.settings.Update(r.Context(), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleHealth: GET /healthz
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
