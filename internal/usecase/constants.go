package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a database transaction. The timeout
	// is armed before the atomic scope is entered; once inside, the scope
	// runs to commit or rollback.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
