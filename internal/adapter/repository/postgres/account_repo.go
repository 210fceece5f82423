package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/infrastructure/postgres/generated"
	"github.com/iho/paywal/internal/usecase"
)

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		OwnerID:        account.OwnerID,
		Balance:        decimalToNumeric(account.Balance),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})

	return translateError(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, translateError(err)
	}

	return rowToAccount(row), nil
}

// GetBalance returns the committed balance of an account.
func (r *AccountRepository) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	balance, err := r.queries.GetAccountBalance(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}

		return decimal.Zero, translateError(err)
	}

	return numericToDecimal(balance), nil
}

// LockForUpdate locks the given accounts with FOR UPDATE, in id order.
func (r *AccountRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.LockAccountsForUpdate(ctx, ids)
	if err != nil {
		return nil, translateError(err)
	}

	if len(rows) != countDistinct(ids) {
		return nil, domain.ErrAccountNotFound
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// TryAdjust applies balance += delta only when the result stays at or above minBalance.
func (r *AccountRepository) TryAdjust(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := queries.AdjustAccountBalance(ctx, generated.AdjustAccountBalanceParams{
		Delta:      decimalToNumeric(delta),
		ID:         id,
		MinBalance: decimalToNumeric(minBalance),
	})
	if err == nil {
		return numericToDecimal(balance), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, translateError(err)
	}

	if _, lookupErr := queries.GetAccountBalance(ctx, id); errors.Is(lookupErr, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	return decimal.Zero, domain.ErrInsufficientFunds
}

// Totals aggregates balances over every account.
func (r *AccountRepository) Totals(ctx context.Context) (usecase.AccountTotals, error) {
	row, err := r.queries.GetAccountTotals(ctx)
	if err != nil {
		return usecase.AccountTotals{}, translateError(err)
	}

	return usecase.AccountTotals{
		Accounts:        row.Accounts,
		Balance:         numericToDecimal(row.TotalBalance),
		OpeningBalance:  numericToDecimal(row.TotalOpeningBalance),
		NegativeBalance: row.NegativeAccounts,
	}, nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Balance:        numericToDecimal(row.Balance),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// txQueries binds generated queries to the pgx transaction behind tx.
func txQueries(tx usecase.Transaction) (*generated.Queries, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("unsupported transaction type %T", tx)
	}

	return generated.New(pgTx.PgxTx()), nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
