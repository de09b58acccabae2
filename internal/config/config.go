// Package config provides centralized configuration management for the
// tracker. Settings load from environment variables with sensible defaults
// and are validated on startup so misconfiguration fails fast, before any
// spreadsheet call is made.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Sheets  SheetsConfig
	Cache   CacheConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout per request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SheetsConfig identifies the external spreadsheet and its credentials.
type SheetsConfig struct {
	// SpreadsheetID is the id of the Google spreadsheet (required)
	SpreadsheetID string `env:"SHEET_ID" required:"true"`

	// CredentialsJSON is the service-account key as inline JSON.
	// Either this or CredentialsFile must be set.
	CredentialsJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`

	// CredentialsFile is a path to the service-account key file.
	CredentialsFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// SinglesTable is the worksheet tab for single wagers (default: Singles)
	SinglesTable string `env:"WORKSHEET_SINGLES" default:"Singles"`

	// ParlaysTable is the worksheet tab for parlay wagers (default: Parlays)
	ParlaysTable string `env:"WORKSHEET_PARLAYS" default:"Parlays"`
}

// CacheConfig holds read-cache settings.
type CacheConfig struct {
	// ReadTTL is how long fetched rows may be served without re-reading the
	// spreadsheet (default: 15s). Writes and explicit refreshes invalidate
	// immediately regardless of this value.
	ReadTTL time.Duration `env:"STORE_READ_CACHE_TTL" default:"15s"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP limit (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Credentials returns the service-account key bytes, preferring the inline
// JSON over the file path, and verifies the payload is valid JSON so a
// mangled key (the classic private_key paste error) is reported at startup
// rather than as an opaque auth failure later.
func (c *SheetsConfig) Credentials() ([]byte, error) {
	var raw []byte
	switch {
	case c.CredentialsJSON != "":
		raw = []byte(c.CredentialsJSON)
	case c.CredentialsFile != "":
		b, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read GOOGLE_SERVICE_ACCOUNT_FILE: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE is required")
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("service account credentials are not valid JSON; check the key was pasted whole, from { to }")
	}
	return raw, nil
}
