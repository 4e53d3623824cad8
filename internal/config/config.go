package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values of the service.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Storage. Without DATABASE_URL places come from the seed file and
	// travel lookups are cached in Redis only (or not at all).
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	SeedPath    string `mapstructure:"SEED_PATH"`

	// Google Distance Matrix. With an empty key no provider is configured and
	// every leg uses the default travel time.
	GoogleAPIKey       string        `mapstructure:"GOOGLE_API_KEY"`
	ProviderRatePerSec float64       `mapstructure:"PROVIDER_RATE_PER_SEC"`
	ProviderBurst      int           `mapstructure:"PROVIDER_BURST"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`

	DefaultBase    string `mapstructure:"DEFAULT_BASE"`
	MinTripMinutes int    `mapstructure:"MIN_TRIP_MINUTES"`
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SEED_PATH", "data/seeds/places.yaml")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("PROVIDER_RATE_PER_SEC", 10.0)
	v.SetDefault("PROVIDER_BURST", 5)
	v.SetDefault("CACHE_TTL", "168h")
	v.SetDefault("DEFAULT_BASE", "Hotel")
	v.SetDefault("MIN_TRIP_MINUTES", 120)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("load config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must be set")
	}
	if c.MinTripMinutes < 0 {
		return fmt.Errorf("MIN_TRIP_MINUTES must be >= 0, got %d", c.MinTripMinutes)
	}
	if c.ProviderRatePerSec <= 0 {
		return fmt.Errorf("PROVIDER_RATE_PER_SEC must be > 0, got %v", c.ProviderRatePerSec)
	}
	if c.ProviderBurst < 1 {
		return fmt.Errorf("PROVIDER_BURST must be >= 1, got %d", c.ProviderBurst)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
