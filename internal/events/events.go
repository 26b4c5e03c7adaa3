// Package events fans participant changes out to optional external sinks.
// Sinks only record events; nothing reads them back into the registry.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"activities-api/internal/common/logger"

	"github.com/google/uuid"
)

// EventType names what happened to a participant.
type EventType string

const (
	EventSignedUp     EventType = "participant.signed_up"
	EventUnregistered EventType = "participant.unregistered"
)

// Event describes one successful signup or unregister.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps a fresh id and UTC time.
func NewEvent(eventType EventType, activity, email string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to a destination.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Sink is a named Publisher that can report its health.
type Sink interface {
	Publisher
	Name() string
	Ping(ctx context.Context) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher delivers to every sink and joins their errors.
type MultiPublisher struct {
	sinks  []Sink
	logger logger.Logger
}

func NewMultiPublisher(log logger.Logger, sinks ...Sink) *MultiPublisher {
	return &MultiPublisher{
		sinks:  sinks,
		logger: log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

// Sinks returns the configured sinks.
func (m *MultiPublisher) Sinks() []Sink {
	return m.sinks
}

func (m *MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			m.logger.Warn("event sink publish failed", map[string]interface{}{
				"sink":    sink.Name(),
				"eventId": event.ID,
				"type":    string(event.Type),
				"error":   err,
			})
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		m.logger.Debug("event published", map[string]interface{}{
			"sink":    sink.Name(),
			"eventId": event.ID,
			"type":    string(event.Type),
		})
	}
	return errors.Join(errs...)
}

// Health pings every sink and returns per-sink status ("ok" or the error text).
func (m *MultiPublisher) Health(ctx context.Context) (map[string]string, bool) {
	status := make(map[string]string, len(m.sinks))
	healthy := true
	for _, sink := range m.sinks {
		if err := sink.Ping(ctx); err != nil {
			status[sink.Name()] = err.Error()
			healthy = false
			continue
		}
		status[sink.Name()] = "ok"
	}
	return status, healthy
}
