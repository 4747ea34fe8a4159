package config

// defaultSections are the values in force before base.yaml is read, grouped
// by top-level section. Every key a YAML file or APP_* variable may set
// appears here, which lets envProvider map names like
// APP_STORE_POSTGRES_MAX_OPEN_CONNS back onto their dotted key.
var defaultSections = map[string]map[string]any{
	"server": {
		"host":            "0.0.0.0",
		"port":            8080,
		"read_timeout":    "5s",
		"write_timeout":   "10s",
		"handler_timeout": "8s",
		"idle_timeout":    "120s",
	},
	"log": {
		"level":  "info",
		"format": "json",
	},
	"store": {
		"driver":                     StoreDriverMemory,
		"postgres.dsn":               "",
		"postgres.max_open_conns":    10,
		"postgres.conn_max_lifetime": "30m",
		"mongo.uri":                  "",
		"mongo.database":             "todo",
		"mongo.collection":           "todos",
		"mongo.connect_timeout":      "10s",
	},
	"client": {
		"base_url":                        "http://localhost:8081",
		"timeout":                         "30s",
		"retry.max_attempts":              3,
		"retry.initial_interval":          "100ms",
		"retry.max_interval":              "10s",
		"retry.multiplier":                2.0,
		"circuit_breaker.max_failures":    5,
		"circuit_breaker.timeout":         "30s",
		"circuit_breaker.half_open_limit": 1,
		"rate_limit.requests_per_second":  0,
		"rate_limit.burst_size":           1,
	},
	"telemetry": {
		"enabled":      false,
		"exporter":     "stdout",
		"endpoint":     "",
		"service_name": "todo-backend",
	},
}
