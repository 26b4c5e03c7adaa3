// internal/handlers/activities/list-activities/config.go
package listactivities

type Config struct {
	// CacheControl is sent with every listing. Empty disables the header.
	CacheControl string `mapstructure:"cache_control"`
}

func LoadConfig() *Config {
	return &Config{
		CacheControl: "no-store",
	}
}
