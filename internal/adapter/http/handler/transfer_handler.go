package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/paywal/internal/adapter/http/dto"
	"github.com/iho/paywal/internal/adapter/http/middleware"
	"github.com/iho/paywal/internal/domain"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Execute(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	engine TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(engine TransferService) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create sends funds from the authenticated account.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := callerAccount(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := req.ToDomain(requesterID, r.Header.Get(middleware.IdempotencyKeyHeader))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid amount",
			Message: err.Error(),
			Reason:  string(domain.ReasonInvalidAmount),
		})
		return
	}

	result, err := h.engine.Execute(r.Context(), transfer)
	if result == nil {
		reason, _ := domain.ReasonOf(err)
		writeJSON(w, mapDomainError(err), dto.ErrorResponse{
			Error:   "transfer failed",
			Message: errMessage(err),
			Reason:  string(reason),
		})
		return
	}

	if result.Outcome == domain.OutcomeRejected {
		writeJSON(w, reasonStatus(result.Reason), dto.TransferResultFromDomain(result))
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferResultFromDomain(result))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
