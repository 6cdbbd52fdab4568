package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports service liveness and dependency readiness.
type HealthHandler struct {
	database HealthChecker
	cache    HealthChecker
}

func NewHealthHandler(database, cache HealthChecker) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	if h.database != nil {
		if err := h.database.Health(ctx); err != nil {
			checks["database"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "healthy"
		}
	}

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			// Degraded but serviceable: the core runs without the cache.
			checks["cache"] = "unhealthy"
		} else {
			checks["cache"] = "healthy"
		}
	}

	body := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}

	respondJSON(w, status, body)
}
