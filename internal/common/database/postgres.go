package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"activities-api/internal/common/config"

	_ "github.com/lib/pq"
)

// auditLogDDL creates the table the audit sink writes to.
const auditLogDDL = `
CREATE TABLE IF NOT EXISTS audit_log (
	id            BIGSERIAL PRIMARY KEY,
	event_type    TEXT        NOT NULL,
	resource_type TEXT        NOT NULL,
	resource_id   TEXT        NOT NULL,
	details       JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL
)`

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureAuditLog creates the audit_log table when missing.
func (c *PostgresClient) EnsureAuditLog(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, auditLogDDL); err != nil {
		return fmt.Errorf("create audit_log: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
