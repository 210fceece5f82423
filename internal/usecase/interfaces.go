package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// AccountStore defines data access for accounts.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	// LockForUpdate locks the given accounts for the rest of tx, in id order.
	LockForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// TryAdjust applies balance += delta iff the result stays >= minBalance and
	// returns the new balance. Fails with domain.ErrInsufficientFunds otherwise.
	TryAdjust(ctx context.Context, tx Transaction, id string, delta, minBalance decimal.Decimal) (decimal.Decimal, error)
	Totals(ctx context.Context) (AccountTotals, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// AccountTotals aggregates balances over every account.
type AccountTotals struct {
	Accounts        int64
	Balance         decimal.Decimal
	OpeningBalance  decimal.Decimal
	NegativeBalance int64
}

// LedgerStore defines data access for the append-only transfer ledger.
type LedgerStore interface {
	// Append inserts rec. If a record with the same idempotency key exists, the stored
	// record is returned together with domain.ErrDuplicateRecord.
	Append(ctx context.Context, tx Transaction, rec *domain.TransferRecord) (*domain.TransferRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.TransferRecord, error)
	// RecentByParticipant returns records sent or received by accountID at or after since,
	// newest first.
	RecentByParticipant(ctx context.Context, accountID string, since time.Time, limit int) ([]*domain.TransferRecord, error)
	// CompletedOutgoingSince returns every completed transfer sent by senderID at or after
	// since, read inside tx. The result is not paged.
	CompletedOutgoingSince(ctx context.Context, tx Transaction, senderID string, since time.Time) ([]*domain.TransferRecord, error)
	// NetFlow returns completed credits minus completed debits for accountID.
	NetFlow(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// AnomalyDetector screens a proposed transfer against recent activity.
type AnomalyDetector interface {
	Evaluate(now time.Time, senderID string, amount, senderBalance decimal.Decimal, recent []*domain.TransferRecord) domain.Verdict
}

// Retrier re-runs an operation that failed with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// StoreGuard short-circuits store calls while the store is unreachable.
type StoreGuard interface {
	Execute(operation func() error) error
}

// TransferMetrics records transfer outcomes.
type TransferMetrics interface {
	ObserveCompleted(amount decimal.Decimal, duration time.Duration)
	ObserveRejected(reason domain.RejectionReason, duration time.Duration)
	ObserveAttemptFailure(reason domain.RejectionReason)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a placeholder so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
