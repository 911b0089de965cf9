package handlers

import (
	"net/http"

	"github.com/projectdesk/projectdesk-api/internal/middleware"
	"github.com/projectdesk/projectdesk-api/internal/services"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(ds *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: ds,
	}
}

// GetDashboard handles GET /dashboard. The payload shape follows the
// principal's role; the branch lives in the service.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(authContext)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dashboard)
}
