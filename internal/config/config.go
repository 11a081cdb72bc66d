package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string        `envconfig:"BOT_TOKEN" required:"true"`
	StoreDriver string        `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite|mongo
	DBPath      string        `envconfig:"DB_PATH" default:"./data/birthdays.db"`
	MongoURI    string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string        `envconfig:"MONGO_DB" default:"birthdaybot"`
	OwnerID     int64         `envconfig:"OWNER_ID" default:"0"`
	SchedulerTZ string        `envconfig:"SCHEDULER_TZ" default:"Asia/Kolkata"`
	ScanAt      string        `envconfig:"SCAN_AT" default:"00:00"`
	SendTimeout time.Duration `envconfig:"SEND_TIMEOUT" default:"10s"`
	DocsURL     string        `envconfig:"DOCS_URL" default:"https://github.com/ykvlv/birthday-bot#readme"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:":8080"` // healthz + metrics
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN: must not be empty")
	}
	switch c.StoreDriver {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("SCHEDULER_TZ: %w", err)
	}
	if _, err := c.ScanMinutes(); err != nil {
		return fmt.Errorf("SCAN_AT: %w", err)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT: must be positive, got %s", c.SendTimeout)
	}
	return nil
}

// Location is the scheduler's timezone.
func (c Config) Location() (*time.Location, error) {
	return domain.ValidateTZ(c.SchedulerTZ)
}

// ScanMinutes is SCAN_AT as minutes after midnight.
func (c Config) ScanMinutes() (int, error) {
	return domain.ParseClock(c.ScanAt)
}
