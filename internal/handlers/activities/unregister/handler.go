// internal/handlers/activities/unregister/handler.go
package unregister

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"activities-api/internal/common/errors"
	"activities-api/internal/common/logger"
	"activities-api/internal/common/metrics"
	"activities-api/internal/events"
	"activities-api/internal/store"
)

const (
	TaskType = "activities.unregister"
	Route    = "DELETE /activities/{activity_name}/unregister"
)

type Handler struct {
	config    *Config
	registry  Registry
	publisher events.Publisher
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

// NewHandler builds the handler that removes a participant from an activity.
// A nil publisher drops events.
func NewHandler(config *Config, registry Registry, publisher events.Publisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	l := log.WithFields(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:    config,
		registry:  registry,
		publisher: publisher,
		errors:    errors.NewErrorHandler(l),
		logger:    l,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	output, err := h.serve(r)
	if err != nil {
		metrics.OperationFailures.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
		h.errors.WriteError(w, r, err)
		return
	}

	metrics.UnregistrationsTotal.Inc()
	errors.WriteJSON(w, http.StatusOK, output)
}

// serve reads the request. Only an absent email parameter is rejected; an
// empty value is passed through like any other address.
func (h *Handler) serve(r *http.Request) (*Output, error) {
	query := r.URL.Query()
	if !query.Has("email") {
		return nil, errors.NewValidationError("email", "email query parameter is required")
	}
	return h.execute(r.Context(), &Input{
		ActivityName: r.PathValue("activity_name"),
		Email:        query.Get("email"),
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	message, err := h.registry.Unregister(input.ActivityName, input.Email)
	if err != nil {
		return nil, convertToStandardError(err, input)
	}

	h.logger.Info("participant unregistered", map[string]interface{}{
		"activity": input.ActivityName,
		"email":    input.Email,
	})

	h.publish(ctx, events.NewEvent(events.EventUnregistered, input.ActivityName, input.Email))

	return &Output{Message: message}, nil
}

// publish is best-effort: failures are logged and never fail the request.
func (h *Handler) publish(ctx context.Context, event events.Event) {
	start := time.Now()
	if err := events.Deliver(ctx, h.publisher, event, h.config.Timeout); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Type)).Inc()
		stdErr := errors.NewEventPublishFailedError("participant-events", err)
		h.logger.Warn("participant event not fully delivered", map[string]interface{}{
			"eventId":   event.ID,
			"eventType": string(event.Type),
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"duration":  time.Since(start).String(),
		})
	}
}

func convertToStandardError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, store.ErrActivityNotFound):
		return errors.NewActivityNotFoundError(input.ActivityName)
	case stderrors.Is(err, store.ErrNotRegistered):
		return errors.NewParticipantNotFoundError(input.ActivityName, input.Email)
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewInternalError(err)
}

func extractErrorCode(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

// Execute runs the unregister without the HTTP layer. Used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
