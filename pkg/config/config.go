// Package config loads application configuration from the environment
// and carries the wired dependencies handed to services.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DB holds database connection settings.
type DB struct {
	Url string `envconfig:"URL"`
}

// Log holds logger settings.
type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[affiliates]"`
}

// Server holds HTTP server settings.
type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Commission holds the default rate table applied when a distribution
// request does not carry its own. Rates are fractional, level 1 first.
// The table is always passed explicitly into the distributor; nothing
// reads it as ambient global state.
type Commission struct {
	Rates string `envconfig:"RATES" default:"0.10,0.05,0.02"`
}

// RateLimit holds HTTP rate limiting settings.
type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Reconcile holds settings for the periodic revenue reconciliation job.
type Reconcile struct {
	Enabled  bool          `envconfig:"ENABLED" default:"false"`
	Interval time.Duration `envconfig:"INTERVAL" default:"15m"`
}

// App is the root application configuration.
type App struct {
	Env        string      `envconfig:"APP_ENV" default:"development"`
	Server     *Server     `envconfig:"SERVER"`
	Log        *Log        `envconfig:"LOG"`
	DB         *DB         `envconfig:"DATABASE"`
	Commission *Commission `envconfig:"COMMISSION"`
	RateLimit  *RateLimit  `envconfig:"RATE_LIMIT"`
	Reconcile  *Reconcile  `envconfig:"RECONCILE"`
}

// Load reads configuration from envFile (when present) and the process
// environment.
func Load(envFile string, logger *slog.Logger) (*App, error) {
	if err := godotenv.Load(envFile); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
