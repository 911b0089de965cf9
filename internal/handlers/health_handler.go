package handlers

import (
	"net/http"

	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// Health handles GET /health for load balancer and uptime checks.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Server is running",
	})
}
