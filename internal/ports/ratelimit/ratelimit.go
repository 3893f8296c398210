package ratelimit

import (
	"context"
	"time"
)

// Decision es el resultado de consumir un token del bucket de key.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter implementa un token bucket por key: rate tokens por segundo,
// capacidad burst.
type Limiter interface {
	Allow(ctx context.Context, key string, rate float64, burst int) (Decision, error)
}
