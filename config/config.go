package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read once at boot from the environment (and .env when present).
type Config struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"5200"`
	DatabaseURL    string   `env:"DATABASE_URL,required,notEmpty"`
	ServiceToken   string   `env:"SERVICE_TOKEN,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// CDN hosts the prestige badge art; falls back to the R2 public endpoint.
	CDNBaseURL string `env:"CDN_BASE_URL"`

	R2 R2Config

	// Auth provider directory; email lookups and sync are off when the URL is empty.
	AuthServiceURL   string        `env:"AUTH_SERVICE_URL"`
	AuthServiceToken string        `env:"AUTH_SERVICE_TOKEN"`
	AuthSyncInterval time.Duration `env:"AUTH_SYNC_INTERVAL" envDefault:"1m"`

	AuditQueueSize     int `env:"AUDIT_QUEUE_SIZE" envDefault:"256"`
	AuditRetentionDays int `env:"AUDIT_RETENTION_DAYS" envDefault:"90"`

	// Tracker boards unused this long are dropped from memory; 0 keeps them.
	BoardIdleTTL time.Duration `env:"BOARD_IDLE_TTL" envDefault:"30m"`
}

// R2Config holds the Cloudflare R2 credentials used for catalog seeds and badge art.
type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
}

// Configured reports whether enough credentials are present to talk to R2.
func (c R2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Bucket != ""
}

// Load reads .env (optional) and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	if cfg.CDNBaseURL == "" && cfg.R2.AccountID != "" {
		cfg.CDNBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID)
	}
	return &cfg, nil
}

// LoadR2 parses only the R2 section; the seeder does not need the service
// settings and loads .env itself.
func LoadR2() (R2Config, error) {
	return env.ParseAs[R2Config]()
}
