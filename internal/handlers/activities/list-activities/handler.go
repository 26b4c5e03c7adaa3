// internal/handlers/activities/list-activities/handler.go
package listactivities

import (
	"context"
	"net/http"

	"activities-api/internal/common/errors"
	"activities-api/internal/common/logger"
)

const (
	TaskType = "activities.list"
	Route    = "GET /activities"
)

type Handler struct {
	config   *Config
	registry Registry
	logger   logger.Logger
}

// NewHandler builds the catalogue listing handler.
func NewHandler(config *Config, registry Registry, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		registry: registry,
		logger: log.WithFields(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	output := h.execute(r.Context())

	if h.config.CacheControl != "" {
		w.Header().Set("Cache-Control", h.config.CacheControl)
	}
	errors.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(_ context.Context) Output {
	activities := h.registry.List()
	h.logger.Debug("listing activities", map[string]interface{}{
		"count": len(activities),
	})
	return Output(activities)
}

// Execute returns the listing without the HTTP layer. Used by tests.
func (h *Handler) Execute(ctx context.Context) Output {
	return h.execute(ctx)
}
