// Package config loads the service settings. Values are layered, each layer
// overriding the one before:
//
//	built-in defaults, configs/base.yaml, configs/{profile}.yaml, APP_* env
//
// and the result is checked by Validate before Load returns it.
package config

import "time"

// Config is the full settings tree; koanf tags give the YAML keys.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig is the inbound listener. HandlerTimeout is the per-request
// budget enforced by the timeout middleware; it must stay below
// WriteTimeout so the 504 is written before the connection deadline.
type ServerConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	HandlerTimeout time.Duration `koanf:"handler_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
}

// LogConfig picks the slog level (debug, info, warn, error) and handler
// (json, text).
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Values for StoreConfig.Driver.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverRemote   = "remote"
)

// StoreConfig chooses where todos live. Only the sub-section for Driver is
// read; the remote driver is configured by Config.Client instead.
type StoreConfig struct {
	Driver   string         `koanf:"driver"`
	Postgres PostgresConfig `koanf:"postgres"`
	Mongo    MongoConfig    `koanf:"mongo"`
}

type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// ClientConfig drives the outbound client the remote driver uses to reach
// another todo API.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig is exponential backoff: InitialInterval grows by Multiplier
// per attempt up to MaxInterval. MaxAttempts counts the first try.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig opens the breaker after MaxFailures consecutive
// failures and probes again after Timeout with HalfOpenLimit requests.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig is a token bucket; zero RequestsPerSecond turns it off.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
