// internal/handlers/activities/signup/config.go
package signup

import (
	"fmt"
	"time"

	"activities-api/internal/common/config"
)

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

// FromAppConfig takes the event publish timeout from the application config.
func FromAppConfig(appConfig *config.Config) *Config {
	cfg := LoadConfig()
	if appConfig != nil && appConfig.Events.PublishTimeout > 0 {
		cfg.Timeout = config.GetDuration(appConfig.Events.PublishTimeout)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
