package repository

import "context"

// PredictionCache stores raw model scores keyed by model fingerprint and input
// hash. A read error is reported as a miss.
type PredictionCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Cache level names reported by Lookup.
const (
	LevelL1   = "L1"
	LevelL2   = "L2"
	LevelMiss = "miss"
)

// LevelReporter is implemented by caches that can tell which tier served a key.
type LevelReporter interface {
	Lookup(ctx context.Context, key string) (value string, level string)
}
