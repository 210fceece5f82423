package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// TransferEngineConfig tunes the transfer engine.
type TransferEngineConfig struct {
	// StoreTimeout bounds every store call and the commit transaction.
	StoreTimeout time.Duration
	// ScreeningWindow is how far back the sender's outgoing transfers are read for screening.
	ScreeningWindow time.Duration
}

// TransferEngineDeps holds the engine's collaborators.
// Clock, Retrier, Guard, Metrics and Logger are optional.
type TransferEngineDeps struct {
	TxManager TransactionManager
	Accounts  AccountStore
	Ledger    LedgerStore
	Outbox    OutboxRepository
	Detector  AnomalyDetector
	IDGen     IDGenerator
	Clock     Clock
	Retrier   Retrier
	Guard     StoreGuard
	Metrics   TransferMetrics
	Logger    zerolog.Logger
}

// TransferEngine validates, screens, commits and records transfers.
type TransferEngine struct {
	txManager TransactionManager
	accounts  AccountStore
	ledger    LedgerStore
	outbox    OutboxRepository
	detector  AnomalyDetector
	idGen     IDGenerator
	clock     Clock
	retrier   Retrier
	guard     StoreGuard
	metrics   TransferMetrics
	logger    zerolog.Logger
	cfg       TransferEngineConfig
}

// NewTransferEngine creates a new TransferEngine.
func NewTransferEngine(deps TransferEngineDeps, cfg TransferEngineConfig) *TransferEngine {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	if cfg.ScreeningWindow <= 0 {
		cfg.ScreeningWindow = domain.DefaultVelocityWindow
	}

	e := &TransferEngine{
		txManager: deps.TxManager,
		accounts:  deps.Accounts,
		ledger:    deps.Ledger,
		outbox:    deps.Outbox,
		detector:  deps.Detector,
		idGen:     deps.IDGen,
		clock:     deps.Clock,
		retrier:   deps.Retrier,
		guard:     deps.Guard,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		cfg:       cfg,
	}

	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.retrier == nil {
		e.retrier = singleAttempt{}
	}
	if e.guard == nil {
		e.guard = passthroughGuard{}
	}
	if e.metrics == nil {
		e.metrics = nopMetrics{}
	}

	return e
}

// Execute runs a transfer request to a terminal state.
//
// A completed transfer returns its result and a nil error. A rejected transfer returns a
// result carrying the rejection reason together with an error wrapping the matching domain
// sentinel. Store outages return a nil result and an error wrapping domain.ErrStoreUnavailable.
// Reusing an idempotency key for a different transfer returns domain.ErrIdempotencyKeyReused.
func (e *TransferEngine) Execute(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	start := e.clock.Now()

	if err := req.Validate(); err != nil {
		return e.reject(ctx, start, req, "", err)
	}

	key, replayable := e.ledgerKey(req)

	var result *domain.TransferResult
	err := e.retrier.Retry(ctx, func() error {
		res, err := e.attempt(ctx, req, key, replayable)
		if err != nil {
			if reason, ok := domain.ReasonOf(err); ok && reason.Retryable() {
				e.metrics.ObserveAttemptFailure(reason)
				e.logger.Warn().
					Err(err).
					Str("from_account_id", req.RequesterID).
					Str("to_account_id", req.RecipientID).
					Msg("transfer attempt failed")
			}
			return err
		}
		result = res
		return nil
	})
	if err == nil {
		e.metrics.ObserveCompleted(req.Amount, e.clock.Now().Sub(start))
		e.logger.Info().
			Str("transfer_id", result.Record.ID).
			Str("from_account_id", req.RequesterID).
			Str("to_account_id", req.RecipientID).
			Str("amount", req.Amount.String()).
			Msg("transfer completed")
		return result, nil
	}

	var replayed *replayError
	if errors.As(err, &replayed) {
		return e.replay(ctx, req, replayed.record)
	}

	return e.reject(ctx, start, req, key, classify(err))
}

// attempt runs one pass of Validating, Screening and Committing.
func (e *TransferEngine) attempt(ctx context.Context, req domain.TransferRequest, key string, replayable bool) (*domain.TransferResult, error) {
	if replayable {
		rec, err := e.lookup(ctx, key)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return nil, &replayError{record: rec}
		}
	}

	sender, err := e.getAccount(ctx, req.RequesterID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSenderAccountNotFound, req.RequesterID)
		}
		return nil, err
	}

	if _, err := e.getAccount(ctx, req.RecipientID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecipientAccountNotFound, req.RecipientID)
		}
		return nil, err
	}

	if err := sender.CanCover(req.Amount); err != nil {
		return nil, err
	}

	return e.commit(ctx, req, key)
}

// commit screens the transfer under the sender's row lock, then applies both balance
// adjustments and the ledger append in the same transaction.
func (e *TransferEngine) commit(ctx context.Context, req domain.TransferRequest, key string) (*domain.TransferResult, error) {
	var result *domain.TransferResult

	err := e.call(ctx, func(ctx context.Context) error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock in id order so opposing transfers cannot deadlock.
		ids := []string{req.RequesterID, req.RecipientID}
		sort.Strings(ids)

		locked, err := e.accounts.LockForUpdate(ctx, tx, ids)
		if err != nil {
			return conflict("lock", req.RequesterID, err)
		}

		sender := findAccount(locked, req.RequesterID)
		if sender == nil {
			return conflict("lock", req.RequesterID, domain.ErrAccountNotFound)
		}

		// From here on the balance and the sender's history cannot change under us.
		if err := sender.CanCover(req.Amount); err != nil {
			return err
		}

		now := e.clock.Now().UTC()
		if err := e.screen(ctx, tx, sender, req.Amount, now); err != nil {
			return err
		}

		senderBalance, err := e.accounts.TryAdjust(ctx, tx, req.RequesterID, req.Amount.Neg(), decimal.Zero)
		if err != nil {
			return conflict("debit", req.RequesterID, err)
		}

		if _, err := e.accounts.TryAdjust(ctx, tx, req.RecipientID, req.Amount, decimal.Zero); err != nil {
			return conflict("credit", req.RecipientID, err)
		}

		stored, err := e.ledger.Append(ctx, tx, e.newRecord(req, key, now, domain.OutcomeCompleted, ""))
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return &replayError{record: stored}
		}
		if err != nil {
			return err
		}

		if err := e.enqueue(ctx, tx, stored); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &domain.TransferResult{
			Outcome:          domain.OutcomeCompleted,
			NewSenderBalance: senderBalance,
			Record:           stored,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// screen runs the anomaly rules against the locked sender and its full outgoing window.
func (e *TransferEngine) screen(ctx context.Context, tx Transaction, sender *domain.Account, amount decimal.Decimal, now time.Time) error {
	recent, err := e.ledger.CompletedOutgoingSince(ctx, tx, sender.ID, now.Add(-e.cfg.ScreeningWindow))
	if err != nil {
		return err
	}

	return e.detector.Evaluate(now, sender.ID, amount, sender.Balance, recent).Err()
}

func findAccount(accounts []*domain.Account, id string) *domain.Account {
	for _, account := range accounts {
		if account.ID == id {
			return account
		}
	}
	return nil
}

// reject finishes a request in the Rejected state, recording it when both participants are known.
func (e *TransferEngine) reject(ctx context.Context, start time.Time, req domain.TransferRequest, key string, cause error) (*domain.TransferResult, error) {
	reason, ok := domain.ReasonOf(cause)
	if !ok || reason == domain.ReasonStoreUnavailable {
		e.metrics.ObserveRejected(domain.ReasonStoreUnavailable, e.clock.Now().Sub(start))
		e.logger.Error().
			Err(cause).
			Str("from_account_id", req.RequesterID).
			Str("to_account_id", req.RecipientID).
			Msg("transfer failed")
		return nil, cause
	}

	result := &domain.TransferResult{Outcome: domain.OutcomeRejected, Reason: reason}

	if reason.Recordable() {
		stored, err := e.recordRejection(ctx, req, key, reason)
		switch {
		case err != nil:
			e.logger.Error().
				Err(err).
				Str("from_account_id", req.RequesterID).
				Str("reason", string(reason)).
				Msg("failed to record rejected transfer")
		case stored.Completed() || !stored.Matches(req):
			// The key already belongs to another outcome.
			return e.replay(ctx, req, stored)
		default:
			result.Record = stored
		}
	}

	e.metrics.ObserveRejected(reason, e.clock.Now().Sub(start))

	event := e.logger.Info()
	if reason.IsAnomaly() {
		event = e.logger.Warn()
	}
	event.
		Str("from_account_id", req.RequesterID).
		Str("to_account_id", req.RecipientID).
		Str("amount", req.Amount.String()).
		Str("reason", string(reason)).
		Msg("transfer rejected")

	return result, cause
}

// recordRejection appends a Rejected record. Caller cancellation does not abort the audit write.
func (e *TransferEngine) recordRejection(ctx context.Context, req domain.TransferRequest, key string, reason domain.RejectionReason) (*domain.TransferRecord, error) {
	var stored *domain.TransferRecord

	err := e.call(context.WithoutCancel(ctx), func(ctx context.Context) error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		rec := e.newRecord(req, key, e.clock.Now().UTC(), domain.OutcomeRejected, reason)

		stored, err = e.ledger.Append(ctx, tx, rec)
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := e.enqueue(ctx, tx, stored); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})

	return stored, err
}

// replay answers a request whose idempotency key is already in the ledger.
func (e *TransferEngine) replay(ctx context.Context, req domain.TransferRequest, rec *domain.TransferRecord) (*domain.TransferResult, error) {
	if !rec.Matches(req) {
		e.logger.Warn().
			Str("transfer_id", rec.ID).
			Str("idempotency_key", rec.IdempotencyKey).
			Msg("idempotency key reused for a different transfer")
		return nil, fmt.Errorf("%w: key already used by transfer %s", domain.ErrIdempotencyKeyReused, rec.ID)
	}

	balance, err := e.getBalance(ctx, req.RequesterID)
	if err != nil {
		e.logger.Warn().Err(err).Str("transfer_id", rec.ID).Msg("failed to read balance for replayed transfer")
	}

	e.logger.Info().
		Str("transfer_id", rec.ID).
		Str("outcome", string(rec.Outcome)).
		Msg("transfer replayed")

	result := domain.ResultFromRecord(rec, balance)
	if rec.Completed() {
		return result, nil
	}

	return result, fmt.Errorf("replayed transfer %s: %w", rec.ID, rec.Reason.Err())
}

func (e *TransferEngine) newRecord(req domain.TransferRequest, key string, now time.Time, outcome domain.Outcome, reason domain.RejectionReason) *domain.TransferRecord {
	return &domain.TransferRecord{
		ID:             e.idGen.Generate(),
		IdempotencyKey: key,
		FromAccountID:  req.RequesterID,
		ToAccountID:    req.RecipientID,
		Amount:         req.Amount,
		Outcome:        outcome,
		Reason:         reason,
		CreatedAt:      now,
	}
}

func (e *TransferEngine) enqueue(ctx context.Context, tx Transaction, rec *domain.TransferRecord) error {
	if e.outbox == nil {
		return nil
	}

	event, ok := domain.NewTransferEvent(e.idGen.Generate(), rec)
	if !ok {
		return nil
	}

	return e.outbox.Create(ctx, tx, event)
}

// ledgerKey scopes a client key to its requester; requests without one get a fresh key.
func (e *TransferEngine) ledgerKey(req domain.TransferRequest) (string, bool) {
	if req.IdempotencyKey == "" {
		return e.idGen.Generate(), false
	}
	return req.RequesterID + ":" + req.IdempotencyKey, true
}

func (e *TransferEngine) lookup(ctx context.Context, key string) (*domain.TransferRecord, error) {
	var rec *domain.TransferRecord

	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		rec, err = e.ledger.GetByIdempotencyKey(ctx, key)
		return err
	})
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, nil
	}

	return rec, err
}

func (e *TransferEngine) getAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account *domain.Account

	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		account, err = e.accounts.GetByID(ctx, id)
		return err
	})

	return account, err
}

func (e *TransferEngine) getBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	balance := decimal.Zero

	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		balance, err = e.accounts.GetBalance(ctx, id)
		return err
	})

	return balance, err
}

// call runs a store operation under the store timeout and the store guard.
// The guard sees classified errors, so raw driver failures count against the store.
func (e *TransferEngine) call(ctx context.Context, operation func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	err := e.guard.Execute(func() error {
		return classify(operation(ctx))
	})

	return classify(err)
}

// classify maps raw store errors onto the transfer taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var replayed *replayError
	switch {
	case errors.As(err, &replayed):
		return err
	case isDomainError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
}

func isDomainError(err error) bool {
	if _, ok := domain.ReasonOf(err); ok {
		return true
	}

	return errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrRecordNotFound) ||
		errors.Is(err, domain.ErrDuplicateRecord)
}

// conflict reports a failed conditional adjustment inside the commit transaction.
// The cause is formatted, not wrapped, so the result classifies as a conflict only.
func conflict(step, accountID string, cause error) error {
	if errors.Is(cause, domain.ErrInsufficientFunds) || errors.Is(cause, domain.ErrAccountNotFound) {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrConcurrentConflict, step, accountID, cause)
	}
	return cause
}

// replayError carries a stored record out of the retry loop when a key collides.
type replayError struct {
	record *domain.TransferRecord
}

func (e *replayError) Error() string {
	return fmt.Sprintf("transfer %s already recorded", e.record.ID)
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

type singleAttempt struct{}

func (singleAttempt) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type passthroughGuard struct{}

func (passthroughGuard) Execute(operation func() error) error {
	return operation()
}

type nopMetrics struct{}

func (nopMetrics) ObserveCompleted(decimal.Decimal, time.Duration) {}

func (nopMetrics) ObserveRejected(domain.RejectionReason, time.Duration) {}

func (nopMetrics) ObserveAttemptFailure(domain.RejectionReason) {}
