package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"activities-api/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestPostgresClient_EnsureAuditLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	defer client.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS audit_log`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS audit_log`).
		WillReturnError(errors.New("permission denied"))

	assert.NoError(t, client.EnsureAuditLog(context.Background()))

	err = client.EnsureAuditLog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_ConfiguresPool(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host:           "localhost",
		Port:           5432,
		Database:       "school",
		User:           "activities",
		MaxConnections: 4,
		MaxIdle:        2,
		SSLMode:        "disable",
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 4, client.DB.Stats().MaxOpenConnections)
}

func TestElasticsearchClient_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, client.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewElasticsearch_RequiresAddresses(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
