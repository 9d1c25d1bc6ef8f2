package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL   string
	OMDBAPIKey    string
	OMDBBaseURL   string
	ServerPort    string
	Environment   string
	SessionSecret string
	CacheTTL      time.Duration
	Debug         bool
}

// Load reads configuration from environment variables. DATABASE_URL and
// OMDB_API_KEY have no usable defaults and must be set.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OMDB_BASE_URL", "http://www.omdbapi.com")
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("SESSION_SECRET", "change-me-in-production")
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("DEBUG", false)

	var missing []string
	for _, key := range []string{"DATABASE_URL", "OMDB_API_KEY"} {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return &Config{
		DatabaseURL:   v.GetString("DATABASE_URL"),
		OMDBAPIKey:    v.GetString("OMDB_API_KEY"),
		OMDBBaseURL:   v.GetString("OMDB_BASE_URL"),
		ServerPort:    v.GetString("PORT"),
		Environment:   v.GetString("ENV"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),
		Debug:         v.GetBool("DEBUG"),
	}, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
