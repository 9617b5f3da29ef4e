package app

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console and the worker.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8090"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppRateLimit      int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	CSRFSecret string        `envconfig:"CSRF_SECRET" required:"true"`
	FormKeyTTL time.Duration `envconfig:"FORM_KEY_TTL" default:"30m"`

	APIBaseURL       string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"20s"`
	APISessionCookie string        `envconfig:"API_SESSION_COOKIE" default:"JSESSIONID"`

	ExportDir        string `envconfig:"EXPORT_DIR" default:"./var/exports"`
	SnapshotCron     string `envconfig:"SNAPSHOT_CRON" default:"0 2 * * *"`
	SnapshotUser     string `envconfig:"SNAPSHOT_USER"`
	SnapshotPassword string `envconfig:"SNAPSHOT_PASSWORD"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api base url must be provided")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// SnapshotsEnabled reports whether the worker has credentials to pull listings.
func (c *Config) SnapshotsEnabled() bool {
	return c != nil && c.SnapshotUser != "" && c.SnapshotCron != ""
}

// Level maps LOG_LEVEL onto a slog level; unknown values fall back to info.
func (c *Config) Level() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
