package ports

import "context"

// HealthChecker reports whether one dependency can serve traffic. Each todo
// store backend implements it.
type HealthChecker interface {
	// Name keys the checker in readiness output, such as "postgres".
	Name() string
	// HealthCheck returns nil when the dependency is usable. It must give up
	// when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)
	// CheckAll maps every checker name to its result; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
