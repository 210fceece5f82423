package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("owner already has an account")
	ErrNegativeBalance      = errors.New("balance cannot be negative")

	// Ledger errors
	ErrRecordNotFound  = errors.New("transfer record not found")
	ErrDuplicateRecord = errors.New("transfer record already exists for idempotency key")
	// ErrIdempotencyKeyReused reports a key replayed with a different recipient or amount.
	ErrIdempotencyKeyReused = errors.New("idempotency key reused for a different transfer")

	// Transfer rejections
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidRecipient         = errors.New("cannot transfer to same account")
	ErrSenderAccountNotFound    = errors.New("sender account not found")
	ErrRecipientAccountNotFound = errors.New("recipient account not found")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrTooManyRapidTransfers    = errors.New("too many rapid transfers")
	ErrSuspiciousLargeTransfer  = errors.New("suspiciously large transfer")
	ErrConcurrentConflict       = errors.New("concurrent update conflict")
	ErrTimeout                  = errors.New("store operation timed out")

	// Infrastructure
	ErrStoreUnavailable = errors.New("store unavailable")
)

// RejectionReason is the structured reason attached to a rejected transfer.
type RejectionReason string

const (
	ReasonInvalidAmount            RejectionReason = "InvalidAmount"
	ReasonInvalidRecipient         RejectionReason = "InvalidRecipient"
	ReasonSenderAccountNotFound    RejectionReason = "SenderAccountNotFound"
	ReasonRecipientAccountNotFound RejectionReason = "RecipientAccountNotFound"
	ReasonInsufficientFunds        RejectionReason = "InsufficientFunds"
	ReasonTooManyRapidTransfers    RejectionReason = "TooManyRapidTransfers"
	ReasonSuspiciousLargeTransfer  RejectionReason = "SuspiciousLargeTransfer"
	ReasonConcurrentConflict       RejectionReason = "ConcurrentConflict"
	ReasonTimeout                  RejectionReason = "Timeout"
	ReasonStoreUnavailable         RejectionReason = "StoreUnavailable"
)

var reasonErrors = []struct {
	err    error
	reason RejectionReason
}{
	{ErrInvalidAmount, ReasonInvalidAmount},
	{ErrInvalidRecipient, ReasonInvalidRecipient},
	{ErrSenderAccountNotFound, ReasonSenderAccountNotFound},
	{ErrRecipientAccountNotFound, ReasonRecipientAccountNotFound},
	{ErrInsufficientFunds, ReasonInsufficientFunds},
	{ErrTooManyRapidTransfers, ReasonTooManyRapidTransfers},
	{ErrSuspiciousLargeTransfer, ReasonSuspiciousLargeTransfer},
	{ErrConcurrentConflict, ReasonConcurrentConflict},
	{ErrTimeout, ReasonTimeout},
	{ErrStoreUnavailable, ReasonStoreUnavailable},
}

// ReasonOf maps an error to its rejection reason.
// The second return value is false for errors outside the transfer taxonomy.
func ReasonOf(err error) (RejectionReason, bool) {
	if err == nil {
		return "", false
	}

	for _, re := range reasonErrors {
		if errors.Is(err, re.err) {
			return re.reason, true
		}
	}

	return "", false
}

// Err returns the sentinel error for a rejection reason.
func (r RejectionReason) Err() error {
	for _, re := range reasonErrors {
		if re.reason == r {
			return re.err
		}
	}

	return errors.New(string(r))
}

// Retryable reports whether the engine may retry a request that failed with this reason.
func (r RejectionReason) Retryable() bool {
	return r == ReasonConcurrentConflict || r == ReasonTimeout
}

// IsAnomaly reports whether the reason was produced by an anomaly rule.
func (r RejectionReason) IsAnomaly() bool {
	return r == ReasonTooManyRapidTransfers || r == ReasonSuspiciousLargeTransfer
}

// Recordable reports whether a rejection with this reason is written to the ledger.
// Malformed requests never reach the store, and a record needs an existing sender.
func (r RejectionReason) Recordable() bool {
	switch r {
	case ReasonInvalidAmount, ReasonInvalidRecipient, ReasonSenderAccountNotFound,
		ReasonStoreUnavailable:
		return false
	default:
		return true
	}
}
