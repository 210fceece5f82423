package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/infrastructure/postgres/generated"
	"github.com/iho/paywal/internal/usecase"
)

// LedgerRepository implements usecase.LedgerStore over the transfer_records table.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Append inserts a record inside tx. A record already stored under the same idempotency
// key is returned together with domain.ErrDuplicateRecord.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, rec *domain.TransferRecord) (*domain.TransferRecord, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.InsertTransferRecord(ctx, generated.InsertTransferRecordParams{
		ID:             rec.ID,
		IdempotencyKey: rec.IdempotencyKey,
		FromAccountID:  rec.FromAccountID,
		ToAccountID:    rec.ToAccountID,
		Amount:         decimalToNumeric(rec.Amount),
		Outcome:        string(rec.Outcome),
		Reason:         string(rec.Reason),
		CreatedAt:      timeToPgTimestamptz(rec.CreatedAt),
	})
	if err == nil {
		return rowToTransferRecord(row), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(err)
	}

	existing, err := queries.GetTransferRecordByIdempotencyKey(ctx, rec.IdempotencyKey)
	if err != nil {
		return nil, translateError(err)
	}

	return rowToTransferRecord(existing), domain.ErrDuplicateRecord
}

// GetByIdempotencyKey retrieves the record stored under key.
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.TransferRecord, error) {
	row, err := r.queries.GetTransferRecordByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, translateError(err)
	}

	return rowToTransferRecord(row), nil
}

// RecentByParticipant returns records sent or received by accountID since the given time, newest first.
func (r *LedgerRepository) RecentByParticipant(ctx context.Context, accountID string, since time.Time, limit int) ([]*domain.TransferRecord, error) {
	rows, err := r.queries.ListRecentTransferRecords(ctx, generated.ListRecentTransferRecordsParams{
		AccountID:  accountID,
		Since:      timeToPgTimestamptz(since),
		MaxRecords: int32(limit),
	})
	if err != nil {
		return nil, translateError(err)
	}

	records := make([]*domain.TransferRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToTransferRecord(row))
	}

	return records, nil
}

// CompletedOutgoingSince returns the completed transfers sent by senderID at or after since,
// read inside tx so that it observes everything committed before the sender row was locked.
func (r *LedgerRepository) CompletedOutgoingSince(ctx context.Context, tx usecase.Transaction, senderID string, since time.Time) ([]*domain.TransferRecord, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListCompletedOutgoingSince(ctx, generated.ListCompletedOutgoingSinceParams{
		SenderID: senderID,
		Since:    timeToPgTimestamptz(since),
	})
	if err != nil {
		return nil, translateError(err)
	}

	records := make([]*domain.TransferRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToTransferRecord(row))
	}

	return records, nil
}

// NetFlow returns completed credits minus completed debits for accountID.
func (r *LedgerRepository) NetFlow(ctx context.Context, accountID string) (decimal.Decimal, error) {
	flow, err := r.queries.GetAccountNetFlow(ctx, accountID)
	if err != nil {
		return decimal.Zero, translateError(err)
	}

	return numericToDecimal(flow), nil
}

func rowToTransferRecord(row generated.TransferRecord) *domain.TransferRecord {
	return &domain.TransferRecord{
		ID:             row.ID,
		IdempotencyKey: row.IdempotencyKey,
		FromAccountID:  row.FromAccountID,
		ToAccountID:    row.ToAccountID,
		Amount:         numericToDecimal(row.Amount),
		Outcome:        domain.Outcome(row.Outcome),
		Reason:         domain.RejectionReason(row.Reason),
		CreatedAt:      row.CreatedAt.Time,
	}
}
