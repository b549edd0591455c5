// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import "time"

// DB holds the database connection settings. An empty URL makes the
// server fall back to the in-memory store.
type DB struct {
	Url string `envconfig:"URL"`
}

// Jwt holds token signing settings.
type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

// Ledger holds the money-movement engine settings.
type Ledger struct {
	// TransferFeeRate is the fee charged to the sender on transfers,
	// as a fraction of the principal.
	TransferFeeRate float64 `envconfig:"TRANSFER_FEE_RATE" default:"0.005"`
	// LockTimeout bounds how long an operation may wait for account
	// locks before failing with a conflict.
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"3s"`
}

// RateLimit holds the HTTP rate limiter settings.
type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Log holds the logger settings.
type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// App is the root configuration.
type App struct {
	Env       string    `envconfig:"APP_ENV" default:"development"`
	Server    Server    `envconfig:"SERVER"`
	Log       Log       `envconfig:"LOG"`
	DB        DB        `envconfig:"DATABASE"`
	Jwt       Jwt       `envconfig:"JWT"`
	Ledger    Ledger    `envconfig:"LEDGER"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
}
