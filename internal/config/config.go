// Package config loads the service configuration from environment variables.
// Every setting has a default except the database URL and the token secret,
// and the whole configuration is validated once at startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Query    QueryConfig
	Auth     AuthConfig
	Stats    StatsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Monitor  MonitorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// DATABASE_URL and DB_URL are both accepted.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of pooled connections (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime closes connections idle for longer than this (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies embedded migrations at startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`
}

// UploadConfig holds spreadsheet import settings.
type UploadConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default: 25MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"26214400"`

	// MaxConcurrent is the number of imports processed in parallel (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long an import waits for a free slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// BatchSize is the number of records per INSERT statement (default: 50)
	BatchSize int `env:"UPLOAD_BATCH_SIZE" default:"50"`

	// SheetName is the worksheet read from every upload, matched case-insensitively (default: Summary1)
	SheetName string `env:"UPLOAD_SHEET_NAME" default:"Summary1"`
}

// QueryConfig holds listing settings.
type QueryConfig struct {
	// DefaultPageSize is used when limit is absent or malformed (default: 50)
	DefaultPageSize int `env:"QUERY_DEFAULT_PAGE_SIZE" default:"50"`

	// MaxPageSize caps the limit parameter (default: 1000)
	MaxPageSize int `env:"QUERY_MAX_PAGE_SIZE" default:"1000"`
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens (required)
	JWTSecret string `env:"JWT_SECRET" required:"true"`

	// TokenTTL is the lifetime of issued tokens (default: 24h)
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" default:"24h"`

	// BcryptCost is the password hashing cost (default: 12)
	BcryptCost int `env:"AUTH_BCRYPT_COST" default:"12"`

	// AdminEmail, AdminPassword and AdminName seed the first administrator when set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" default:"Administrator"`
}

// StatsConfig holds statistics cache settings.
type StatsConfig struct {
	// CacheTTL is how long aggregate results are served from memory (default: 30s)
	CacheTTL time.Duration `env:"STATS_CACHE_TTL" default:"30s"`

	// CacheSize is the number of cached aggregate results (default: 16)
	CacheSize int `env:"STATS_CACHE_SIZE" default:"16"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for the upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs allowed to set X-Real-IP
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MonitorConfig holds dependency health monitoring settings.
type MonitorConfig struct {
	// Enabled starts the background dependency checker (default: false)
	Enabled bool `env:"DEPHEALTH_ENABLED" default:"false"`

	// ServiceID names this service in dependency metrics (default: netinventory)
	ServiceID string `env:"DEPHEALTH_SERVICE_ID" default:"netinventory"`

	// Group is the metrics group label (default: inventory)
	Group string `env:"DEPHEALTH_GROUP" default:"inventory"`

	// CheckInterval is the time between dependency checks (default: 15s)
	CheckInterval time.Duration `env:"DEPHEALTH_CHECK_INTERVAL" default:"15s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
