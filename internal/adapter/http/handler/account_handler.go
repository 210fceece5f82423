package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/adapter/http/dto"
	"github.com/iho/paywal/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	RecentTransfers(ctx context.Context, accountID string, limit int) ([]usecase.TransferView, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Balance returns the authenticated account's balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerAccount(w, r)
	if !ok {
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// History lists the newest transfers the authenticated account sent or received.
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerAccount(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultHistoryLimit)

	views, err := h.accountUC.RecentTransfers(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferHistoryFromViews(views))
}
