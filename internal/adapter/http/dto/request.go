package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// CreateTransferRequest represents a request to move funds from the caller's account.
type CreateTransferRequest struct {
	RecipientID string `json:"recipient_id"`
	Amount      string `json:"amount"`
}

// ToDomain converts the request into a transfer request on behalf of requesterID.
func (r *CreateTransferRequest) ToDomain(requesterID, idempotencyKey string) (domain.TransferRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return domain.TransferRequest{}, fmt.Errorf("%w: %q is not a decimal", domain.ErrInvalidAmount, r.Amount)
	}

	return domain.TransferRequest{
		RequesterID:    requesterID,
		RecipientID:    strings.TrimSpace(r.RecipientID),
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil
}
