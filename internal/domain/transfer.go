package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the terminal state of a transfer attempt.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeRejected  Outcome = "rejected"
)

// TransferRequest is a caller's request to move funds. It is never persisted.
type TransferRequest struct {
	RequesterID    string
	RecipientID    string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// Validate validates the request before any store access.
func (r *TransferRequest) Validate() error {
	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if strings.TrimSpace(r.RecipientID) == "" || r.RequesterID == r.RecipientID {
		return ErrInvalidRecipient
	}

	return nil
}

// TransferRecord is an immutable ledger entry describing one transfer attempt.
type TransferRecord struct {
	ID             string
	IdempotencyKey string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Outcome        Outcome
	Reason         RejectionReason
	CreatedAt      time.Time
}

// Completed reports whether the record moved funds.
func (r *TransferRecord) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Matches reports whether req asks for the same transfer as the record.
func (r *TransferRecord) Matches(req TransferRequest) bool {
	return r.FromAccountID == req.RequesterID &&
		r.ToAccountID == req.RecipientID &&
		r.Amount.Equal(req.Amount)
}

// Direction describes a record from the point of view of one participant.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// DirectionFor returns whether accountID sent or received the transfer,
// and the id of the other participant.
func (r *TransferRecord) DirectionFor(accountID string) (Direction, string) {
	if r.FromAccountID == accountID {
		return DirectionSent, r.ToAccountID
	}
	return DirectionReceived, r.FromAccountID
}

// TransferResult is what the engine returns for a request.
type TransferResult struct {
	Outcome          Outcome
	Reason           RejectionReason
	NewSenderBalance decimal.Decimal
	Record           *TransferRecord
}

// ResultFromRecord rebuilds a result from a stored record, used when a request is replayed.
func ResultFromRecord(rec *TransferRecord, senderBalance decimal.Decimal) *TransferResult {
	return &TransferResult{
		Outcome:          rec.Outcome,
		Reason:           rec.Reason,
		NewSenderBalance: senderBalance,
		Record:           rec,
	}
}
