package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long HTTP idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// BalanceCacheTTL bounds staleness of cached balance aggregates
	BalanceCacheTTL = 30 * time.Second

	// AgedTransitCutoff is the default age after which a still-pending
	// transfer is reported by the transit monitoring read
	AgedTransitCutoff = 7 * 24 * time.Hour
)
