package handler

import (
	"log/slog"
	"net/http"

	"github.com/linkdesk/videolink/internal/infra"
)

// HealthHandler returns a health check endpoint.
func HealthHandler(db infra.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := infra.HealthCheck(r.Context(), db); err != nil {
			logger.Warn("health check failed", "error", err)
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
