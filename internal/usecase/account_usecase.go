package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountStore
	ledgerRepo  LedgerStore
	idGen       IDGenerator
	clock       Clock
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountStore, ledgerRepo LedgerStore, idGen IDGenerator, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		clock:       SystemClock{},
		logger:      logger,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	OwnerID        string
	OpeningBalance decimal.Decimal
}

// OpenAccount opens the single account of an owner.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateOwnerID(input.OwnerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateOpeningBalance(input.OpeningBalance); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		Balance:        input.OpeningBalance,
		OpeningBalance: input.OpeningBalance,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("owner_id", account.OwnerID).
		Str("opening_balance", account.OpeningBalance.String()).
		Msg("account opened")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetBalance returns the current balance of an account.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	return uc.accountRepo.GetBalance(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.accountRepo.List(ctx, limit, offset)
}

// TransferView is a ledger record seen from one participant.
type TransferView struct {
	Record         *domain.TransferRecord
	Direction      domain.Direction
	CounterpartyID string
}

// RecentTransfers returns the newest records an account sent or received.
func (uc *AccountUseCase) RecentTransfers(ctx context.Context, accountID string, limit int) ([]TransferView, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit, _, err := domain.ValidatePagination(limit, 0)
	if err != nil {
		return nil, err
	}

	records, err := uc.ledgerRepo.RecentByParticipant(ctx, accountID, time.Time{}, limit)
	if err != nil {
		return nil, err
	}

	views := make([]TransferView, 0, len(records))
	for _, rec := range records {
		direction, counterparty := rec.DirectionFor(accountID)
		views = append(views, TransferView{
			Record:         rec,
			Direction:      direction,
			CounterpartyID: counterparty,
		})
	}

	return views, nil
}
