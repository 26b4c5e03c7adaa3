package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: mergington-activities
server:
  port: 9000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "mergington-activities", cfg.App.Name)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Server.RequestTimeout)
	assert.Equal(t, "activities.participants", cfg.Events.Redis.Channel)
	assert.Equal(t, "activity-participant-events", cfg.Events.Elasticsearch.Index)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Events.AnyEnabled())
	assert.Equal(t, ":9000", cfg.Server.Addr())
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("LOGGING_LEVEL", "debug")
	t.Setenv("SEED_FILE", "/srv/seed.json")

	path := writeConfig(t, `
registry:
  seed_path: ${SEED_FILE}
server:
  port: 9000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/seed.json", cfg.Registry.SeedPath)
}

func TestLoadFromFile_UnsetPlaceholderUsesFallback(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("REDIS_PASSWORD", "from-env")

	path := writeConfig(t, `
database:
  postgres:
    user: ${DB_USER}
  redis:
    password: ${REDIS_SECRET_UNSET}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.Postgres.User)
	assert.Equal(t, "from-env", cfg.Database.Redis.Password)
}

func TestLoadFromFile_SecretFallbacks(t *testing.T) {
	t.Setenv("DB_USER", "activities")
	t.Setenv("DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
events:
  postgres:
    enabled: true
database:
  postgres:
    host: localhost
    database: school
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "activities", cfg.Database.Postgres.User)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=school")
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name: "redis sink without address",
			body: `
events:
  redis:
    enabled: true
`,
			errMsg: "database.redis.address is required",
		},
		{
			name: "postgres sink without host",
			body: `
events:
  postgres:
    enabled: true
`,
			errMsg: "database.postgres.host is required",
		},
		{
			name: "elasticsearch sink without addresses",
			body: `
events:
  elasticsearch:
    enabled: true
`,
			errMsg: "database.elasticsearch.addresses or url is required",
		},
		{
			name: "sns sink without topic",
			body: `
events:
  sns:
    enabled: true
`,
			errMsg: "events.sns.topic_arn is required",
		},
		{
			name: "port out of range",
			body: `
server:
  port: 70000
`,
			errMsg: "server.port must be between",
		},
		{
			name: "publish timeout outlasts request timeout",
			body: `
server:
  request_timeout: 1000
events:
  publish_timeout: 1000
`,
			errMsg: "events.publish_timeout (1000ms) must be shorter than server.request_timeout (1000ms)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestElasticsearchConfig_GetAddresses(t *testing.T) {
	assert.Nil(t, ElasticsearchConfig{}.GetAddresses())
	assert.Equal(t, []string{"http://es:9200"}, ElasticsearchConfig{URL: "http://es:9200"}.GetAddresses())
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"},
		ElasticsearchConfig{Addresses: []string{"http://a:9200", "http://b:9200"}, URL: "http://c:9200"}.GetAddresses())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
