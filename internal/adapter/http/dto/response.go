package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// TransferRecordResponse represents a ledger record in API responses.
type TransferRecordResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Outcome       string          `json:"outcome"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransferRecordFromDomain converts a ledger record to response.
func TransferRecordFromDomain(rec *domain.TransferRecord) *TransferRecordResponse {
	return &TransferRecordResponse{
		ID:            rec.ID,
		FromAccountID: rec.FromAccountID,
		ToAccountID:   rec.ToAccountID,
		Amount:        rec.Amount,
		Outcome:       string(rec.Outcome),
		Reason:        string(rec.Reason),
		CreatedAt:     rec.CreatedAt,
	}
}

// TransferResultResponse is the terminal state of a transfer request.
type TransferResultResponse struct {
	Outcome          string                  `json:"outcome"`
	Reason           string                  `json:"reason,omitempty"`
	NewSenderBalance *decimal.Decimal        `json:"new_sender_balance,omitempty"`
	Transfer         *TransferRecordResponse `json:"transfer,omitempty"`
}

// TransferResultFromDomain converts an engine result to response.
// The sender balance is only reported for completed transfers.
func TransferResultFromDomain(res *domain.TransferResult) *TransferResultResponse {
	resp := &TransferResultResponse{
		Outcome: string(res.Outcome),
		Reason:  string(res.Reason),
	}
	if res.Outcome == domain.OutcomeCompleted {
		balance := res.NewSenderBalance
		resp.NewSenderBalance = &balance
	}
	if res.Record != nil {
		resp.Transfer = TransferRecordFromDomain(res.Record)
	}
	return resp
}

// BalanceResponse represents an account balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransferHistoryItem is a ledger record seen from one participant.
type TransferHistoryItem struct {
	TransferRecordResponse
	Direction      string `json:"direction"`
	CounterpartyID string `json:"counterparty_id"`
}

// TransferHistoryFromViews converts participant views to responses.
func TransferHistoryFromViews(views []usecase.TransferView) []*TransferHistoryItem {
	result := make([]*TransferHistoryItem, len(views))
	for i, v := range views {
		result[i] = &TransferHistoryItem{
			TransferRecordResponse: *TransferRecordFromDomain(v.Record),
			Direction:              string(v.Direction),
			CounterpartyID:         v.CounterpartyID,
		}
	}
	return result
}

// ConsistencyResponse reports the global balance invariants.
type ConsistencyResponse struct {
	Consistent       bool            `json:"consistent"`
	Accounts         int64           `json:"accounts"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalOpening     decimal.Decimal `json:"total_opening_balance"`
	NegativeAccounts int64           `json:"negative_accounts"`
	CheckedAt        time.Time       `json:"checked_at"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:       r.Consistent,
		Accounts:         r.Accounts,
		TotalBalance:     r.TotalBalance,
		TotalOpening:     r.TotalOpening,
		NegativeAccounts: r.NegativeAccounts,
		CheckedAt:        r.CheckedAt,
	}
}

// ReconciliationResponse reports a single account reconciliation.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	Reconciled        bool            `json:"reconciled"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a reconciliation of every account.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	LedgerConsistent   bool                      `json:"ledger_consistent"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromDomain converts a reconciliation report to response.
func ReconciliationReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		LedgerConsistent:   r.LedgerConsistent,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}
