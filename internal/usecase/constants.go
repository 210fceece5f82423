package usecase

import "time"

const (
	// DefaultStoreTimeout bounds every store call made by the engine.
	DefaultStoreTimeout = 5 * time.Second

	// DefaultHistoryLimit is the number of records returned for recent activity.
	DefaultHistoryLimit = 10

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
