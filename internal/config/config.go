// Package config loads service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
)

// Config holds all configuration for the CO2-intensity dashboard service.
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8080"`

	// Dataset source
	DataFile string `env:"DATA_FILE,default=monthly.csv"`
	DataURL  string `env:"DATA_URL,default=https://ember-climate.org/app/uploads/2022/07/monthly_full_release_long_format-4.csv"`
	MinYear  int    `env:"MIN_YEAR,default=0"`

	// Chart configuration
	TimeBucket     string `env:"TIME_BUCKET,default=month"`
	ExtremaMarkers bool   `env:"EXTREMA_MARKERS,default=true"`

	// Animation and sessions
	AnimationInterval time.Duration `env:"ANIMATION_INTERVAL,default=2s"`
	DefaultCountries  string        `env:"DEFAULT_COUNTRIES"`
	SessionTTL        time.Duration `env:"SESSION_TTL,default=30m"`

	// Optional panels (empty value disables the feature)
	NewsFeedURL  string `env:"NEWS_FEED_URL"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4.1"`

	// Snapshot storage
	StorageMode  string `env:"STORAGE_MODE,default=local"`
	GCSBucket    string `env:"GCS_BUCKET"`
	SnapshotDir  string `env:"SNAPSHOT_DIR,default=./snapshots"`
	SnapshotCron string `env:"SNAPSHOT_CRON"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables and validates it.
// Validation failures are fatal at startup; nothing here is recoverable.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.TimeBucket {
	case "month", "year":
	default:
		return fmt.Errorf("invalid TIME_BUCKET %q: must be month or year", c.TimeBucket)
	}
	switch c.StorageMode {
	case "local", "gcs":
	default:
		return fmt.Errorf("invalid STORAGE_MODE %q: must be local or gcs", c.StorageMode)
	}
	if c.StorageMode == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
	}
	if c.MinYear < 0 {
		return fmt.Errorf("invalid MIN_YEAR %d: must be >= 0", c.MinYear)
	}
	if c.AnimationInterval <= 0 {
		return fmt.Errorf("invalid ANIMATION_INTERVAL %s: must be positive", c.AnimationInterval)
	}
	return nil
}

// BucketUnit returns the heatmap time grouping as a typed unit.
func (c *Config) BucketUnit() models.BucketUnit {
	if c.TimeBucket == "year" {
		return models.BucketYear
	}
	return models.BucketMonth
}

// DefaultSelection returns the countries every new session starts with.
// DEFAULT_COUNTRIES is a comma-separated list; blank entries are dropped.
func (c *Config) DefaultSelection() []string {
	raw := c.DefaultCountries
	if strings.TrimSpace(raw) == "" {
		return []string{"Germany", "Cyprus", "Portugal"}
	}
	var countries []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			countries = append(countries, name)
		}
	}
	return countries
}

// InsightsEnabled reports whether the OpenAI commentary endpoint is usable.
func (c *Config) InsightsEnabled() bool { return c.OpenAIAPIKey != "" }

// NewsEnabled reports whether a publisher feed is configured.
func (c *Config) NewsEnabled() bool { return c.NewsFeedURL != "" }
