package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// AuditSink appends events to the audit_log table.
type AuditSink struct {
	db *sql.DB
}

func NewAuditSink(db *sql.DB) *AuditSink {
	return &AuditSink{db: db}
}

func (s *AuditSink) Name() string { return "postgres" }

func (s *AuditSink) Publish(ctx context.Context, event Event) error {
	details, err := json.Marshal(map[string]interface{}{
		"eventId": event.ID,
		"email":   event.Email,
	})
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(event.Type),
		"activity",
		event.Activity,
		string(details),
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("audit log insert: %w", err)
	}
	return nil
}

func (s *AuditSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
