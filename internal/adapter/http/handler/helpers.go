package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/paywal/internal/adapter/http/dto"
	"github.com/iho/paywal/internal/adapter/http/middleware"
	"github.com/iho/paywal/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	if reason, ok := domain.ReasonOf(err); ok {
		return reasonStatus(reason)
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrIdempotencyKeyReused):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidOwnerID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNegativeBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// reasonStatus maps a transfer rejection reason to an HTTP status code.
func reasonStatus(reason domain.RejectionReason) int {
	switch reason {
	case domain.ReasonInvalidAmount, domain.ReasonInvalidRecipient:
		return http.StatusBadRequest
	case domain.ReasonSenderAccountNotFound, domain.ReasonRecipientAccountNotFound:
		return http.StatusNotFound
	case domain.ReasonInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.ReasonTooManyRapidTransfers, domain.ReasonSuspiciousLargeTransfer:
		return http.StatusForbidden
	case domain.ReasonConcurrentConflict:
		return http.StatusConflict
	case domain.ReasonTimeout:
		return http.StatusGatewayTimeout
	case domain.ReasonStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// callerAccount returns the authenticated account or writes 401.
func callerAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return id, true
}
