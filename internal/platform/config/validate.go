package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// problems collects every invalid setting so one failed start reports all
// of them.
type problems []error

func (p *problems) require(ok bool, key, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf("%s "+format, append([]any{key}, args...)...))
	}
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	p.require(slices.Contains(allowed, got), key, "must be one of %s, got %q", strings.Join(allowed, ", "), got)
}

// Validate reports every invalid setting, joined into one error. Sections
// that the chosen store driver or telemetry switch leave unused are skipped.
func (c *Config) Validate() error {
	var p problems

	p.require(c.Server.Port >= 1 && c.Server.Port <= 65535, "server.port", "must be in 1..65535, got %d", c.Server.Port)
	p.require(c.Server.ReadTimeout > 0, "server.read_timeout", "must be positive")
	p.require(c.Server.WriteTimeout > 0, "server.write_timeout", "must be positive")
	p.require(c.Server.HandlerTimeout > 0 && c.Server.HandlerTimeout < c.Server.WriteTimeout,
		"server.handler_timeout", "must be positive and below server.write_timeout (%s), got %s",
		c.Server.WriteTimeout, c.Server.HandlerTimeout)

	p.oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error")
	p.oneOf("log.format", c.Log.Format, "json", "text")

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		pg := c.Store.Postgres
		p.require(pg.DSN != "", "store.postgres.dsn", "is required by the postgres driver")
		p.require(pg.MaxOpenConns >= 1, "store.postgres.max_open_conns", "must be at least 1, got %d", pg.MaxOpenConns)
	case StoreDriverMongo:
		m := c.Store.Mongo
		p.require(m.URI != "", "store.mongo.uri", "is required by the mongo driver")
		p.require(m.Database != "", "store.mongo.database", "must not be empty")
		p.require(m.Collection != "", "store.mongo.collection", "must not be empty")
		p.require(m.ConnectTimeout > 0, "store.mongo.connect_timeout", "must be positive")
	case StoreDriverRemote:
		c.Client.check(&p)
	default:
		p.oneOf("store.driver", c.Store.Driver,
			StoreDriverMemory, StoreDriverPostgres, StoreDriverMongo, StoreDriverRemote)
	}

	if c.Telemetry.Enabled {
		p.oneOf("telemetry.exporter", c.Telemetry.Exporter, "stdout", "otlp")
		p.require(c.Telemetry.Exporter != "otlp" || c.Telemetry.Endpoint != "",
			"telemetry.endpoint", "is required by the otlp exporter")
	}

	return errors.Join(p...)
}

func (cl *ClientConfig) check(p *problems) {
	p.require(cl.BaseURL != "", "client.base_url", "is required by the remote driver")
	p.require(cl.Timeout > 0, "client.timeout", "must be positive")
	p.require(cl.Retry.MaxAttempts >= 1, "client.retry.max_attempts", "must be at least 1, got %d", cl.Retry.MaxAttempts)
	p.require(cl.Retry.Multiplier > 0, "client.retry.multiplier", "must be positive, got %g", cl.Retry.Multiplier)
	p.require(cl.CircuitBreaker.MaxFailures >= 1, "client.circuit_breaker.max_failures",
		"must be at least 1, got %d", cl.CircuitBreaker.MaxFailures)

	rl := cl.RateLimit
	p.require(rl.RequestsPerSecond >= 0, "client.rate_limit.requests_per_second", "must not be negative, got %g", rl.RequestsPerSecond)
	p.require(rl.RequestsPerSecond == 0 || rl.BurstSize >= 1, "client.rate_limit.burst_size",
		"must be at least 1 when limiting, got %d", rl.BurstSize)
}
