// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every known key so AutomaticEnv overrides apply
// even when the key is absent from the YAML file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"app.name", "app.version", "app.environment",
		"server.host", "server.port", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.shutdown_timeout", "server.request_timeout",
		"registry.seed_path",
		"events.redis.enabled", "events.redis.channel",
		"events.postgres.enabled",
		"events.elasticsearch.enabled", "events.elasticsearch.index",
		"events.sns.enabled", "events.sns.topic_arn",
		"events.publish_timeout",
		"database.postgres.host", "database.postgres.port", "database.postgres.database",
		"database.postgres.user", "database.postgres.password", "database.postgres.sslmode",
		"database.redis.address", "database.redis.password", "database.redis.db",
		"database.elasticsearch.url", "database.elasticsearch.username", "database.elasticsearch.password",
		"aws.region",
		"logging.level", "logging.format", "logging.output",
		"tracing.enabled", "tracing.jaeger_endpoint",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so the env fallbacks below can apply
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from conventional env names when the file left them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
	if cfg.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.AWS.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "activities-api"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 5000
	}

	if cfg.Events.Redis.Channel == "" {
		cfg.Events.Redis.Channel = "activities.participants"
	}
	if cfg.Events.Elasticsearch.Index == "" {
		cfg.Events.Elasticsearch.Index = "activity-participant-events"
	}
	if cfg.Events.PublishTimeout == 0 {
		cfg.Events.PublishTimeout = 2000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig only demands backing settings for the sinks that are enabled.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	if cfg.Events.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when events.redis is enabled")
	}

	if cfg.Events.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when events.postgres is enabled")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when events.postgres is enabled")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when events.postgres is enabled")
		}
	}

	if cfg.Events.Elasticsearch.Enabled && len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses or url is required when events.elasticsearch is enabled")
	}

	if cfg.Events.SNS.Enabled && cfg.Events.SNS.TopicARN == "" {
		return fmt.Errorf("events.sns.topic_arn is required when events.sns is enabled")
	}

	if cfg.Server.RequestTimeout > 0 && cfg.Events.PublishTimeout >= cfg.Server.RequestTimeout {
		return fmt.Errorf("events.publish_timeout (%dms) must be shorter than server.request_timeout (%dms)",
			cfg.Events.PublishTimeout, cfg.Server.RequestTimeout)
	}

	return nil
}
