package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// ReconciliationUseCase checks balances against the ledger.
type ReconciliationUseCase struct {
	accountRepo AccountStore
	ledgerRepo  LedgerStore
	clock       Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountStore, ledgerRepo LedgerStore) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		clock:       SystemClock{},
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares an account's balance with its opening balance plus completed ledger flow.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	netFlow, err := uc.ledgerRepo.NetFlow(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated := account.OpeningBalance.Add(netFlow)
	difference := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		IsReconciled:      difference.IsZero(),
		LastChecked:       uc.clock.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every account, one page at a time.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	limit, offset, _ := domain.ValidatePagination(100, 0)

	var results []*ReconciliationResult
	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < limit {
			return results, nil
		}
		offset += limit
	}
}

// ConsistencyReport summarizes the global balance invariants.
type ConsistencyReport struct {
	Accounts         int64
	TotalBalance     decimal.Decimal
	TotalOpening     decimal.Decimal
	NegativeAccounts int64
	Consistent       bool
	CheckedAt        time.Time
}

// CheckLedgerConsistency verifies that transfers conserved money and no balance went negative.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.accountRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Accounts:         totals.Accounts,
		TotalBalance:     totals.Balance,
		TotalOpening:     totals.OpeningBalance,
		NegativeAccounts: totals.NegativeBalance,
		Consistent:       totals.Balance.Equal(totals.OpeningBalance) && totals.NegativeBalance == 0,
		CheckedAt:        uc.clock.Now().UTC(),
	}

	if !report.Consistent {
		return report, fmt.Errorf(
			"ledger inconsistency detected: balance=%s opening=%s difference=%s negative_accounts=%d",
			totals.Balance.String(),
			totals.OpeningBalance.String(),
			totals.Balance.Sub(totals.OpeningBalance).String(),
			totals.NegativeBalance,
		)
	}

	return report, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	_, ledgerErr := uc.CheckLedgerConsistency(ctx)

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        uc.clock.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
