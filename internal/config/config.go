package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr   string
	BaseURL      string
	CORSOrigins  string // Comma-separated allowed origins
	RateLimitMax int    // Requests per minute per IP

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// Catalog data
	OffersPath  string
	ChangesPath string

	// Snapshot persistence
	SnapshotBackend  string // file, bolt or postgres
	SnapshotPath     string
	SnapshotBoltPath string
	DatabaseURL      string

	// Tool protocol sessions
	RedisURL   string // Empty keeps sessions in memory
	SessionTTL time.Duration

	// Pricing drift checks
	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchInterval    time.Duration // Server background check interval, 0 disables
	FetchDelay       time.Duration // Minimum spacing between requests
	FirecrawlAPIKey  string
	FirecrawlAPIURL  string

	// Staleness
	StaleThresholdDays int

	// Site
	SiteTitle string

	// Email (pricing change alerts)
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string   // none, tls or starttls
	NotifyEmails []string // Recipients of pricing change alerts
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   getEnv("SERVER_ADDR", portAddr()),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 100),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		OffersPath:  getEnv("OFFERS_PATH", "data/index.json"),
		ChangesPath: getEnv("CHANGES_PATH", "data/deal_changes.json"),

		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", "file"),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", "data/pricing-hashes.json"),
		SnapshotBoltPath: getEnv("SNAPSHOT_BOLT_PATH", "data/pricing-hashes.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),

		RedisURL:   getEnv("REDIS_URL", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 4),
		FetchInterval:    getEnvDuration("FETCH_INTERVAL", 0),
		FetchDelay:       getEnvDuration("FETCH_DELAY", 0),
		FirecrawlAPIKey:  getEnv("FIRECRAWL_API_KEY", ""),
		FirecrawlAPIURL:  getEnv("FIRECRAWL_API_URL", "https://api.firecrawl.dev"),

		StaleThresholdDays: getEnvInt("STALE_THRESHOLD_DAYS", 30),

		SiteTitle: getEnv("SITE_TITLE", "AgentDeals"),

		SMTPEnabled:  getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "AgentDeals"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),
		NotifyEmails: splitList(getEnv("NOTIFY_EMAILS", "")),
	}
}

// portAddr honours PORT when SERVER_ADDR is unset, as most PaaS hosts set it.
func portAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":3000"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is configured well enough to send.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// ApplyYAML layers file settings under the environment: a YAML value is used
// only where the matching env var is unset.
func (c *Config) ApplyYAML(y *YAMLConfig) {
	if y == nil {
		return
	}
	if y.Staleness.ThresholdDays > 0 && os.Getenv("STALE_THRESHOLD_DAYS") == "" {
		c.StaleThresholdDays = y.Staleness.ThresholdDays
	}
	if y.Pricing.Concurrency > 0 && os.Getenv("FETCH_CONCURRENCY") == "" {
		c.FetchConcurrency = y.Pricing.Concurrency
	}
}
