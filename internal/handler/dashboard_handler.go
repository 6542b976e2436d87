package handler

import (
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/service"
	"net/http"
)

// DashboardHandler serves the landing page of the admin tool.
type DashboardHandler struct {
	base
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(b base, d *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{base: b, dashboard: d}
}

func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		return internalError(err, "Failed to load dashboard")
	}
	return h.render(w, r, "dashboard.html", map[string]interface{}{"Stats": stats})
}
