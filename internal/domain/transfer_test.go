package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransferRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		fromID      string
		toID        string
		amount      decimal.Decimal
		expectError error
	}{
		{
			name:        "valid transfer",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.NewFromInt(100),
			expectError: nil,
		},
		{
			name:        "same account",
			fromID:      "account-1",
			toID:        "account-1",
			amount:      decimal.NewFromInt(100),
			expectError: ErrInvalidRecipient,
		},
		{
			name:        "missing recipient",
			fromID:      "account-1",
			toID:        "  ",
			amount:      decimal.NewFromInt(100),
			expectError: ErrInvalidRecipient,
		},
		{
			name:        "zero amount",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.Zero,
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.NewFromInt(-5),
			expectError: ErrInvalidAmount,
		},
		{
			name:        "too many decimal places",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.RequireFromString("0.000000001"),
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &TransferRequest{
				RequesterID: tt.fromID,
				RecipientID: tt.toID,
				Amount:      tt.amount,
			}

			err := req.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransferRecord_DirectionFor(t *testing.T) {
	rec := &TransferRecord{FromAccountID: "alice", ToAccountID: "bob"}

	dir, counterparty := rec.DirectionFor("alice")
	if dir != DirectionSent || counterparty != "bob" {
		t.Errorf("expected sent to bob, got %s to %s", dir, counterparty)
	}

	dir, counterparty = rec.DirectionFor("bob")
	if dir != DirectionReceived || counterparty != "alice" {
		t.Errorf("expected received from alice, got %s from %s", dir, counterparty)
	}
}

func TestTransferRecord_Matches(t *testing.T) {
	rec := &TransferRecord{FromAccountID: "alice", ToAccountID: "bob", Amount: decimal.RequireFromString("10.50")}

	tests := []struct {
		name string
		req  TransferRequest
		want bool
	}{
		{"same transfer", TransferRequest{RequesterID: "alice", RecipientID: "bob", Amount: decimal.RequireFromString("10.5")}, true},
		{"other recipient", TransferRequest{RequesterID: "alice", RecipientID: "carol", Amount: decimal.RequireFromString("10.50")}, false},
		{"other amount", TransferRequest{RequesterID: "alice", RecipientID: "bob", Amount: decimal.NewFromInt(11)}, false},
		{"other sender", TransferRequest{RequesterID: "bob", RecipientID: "bob", Amount: decimal.RequireFromString("10.50")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.Matches(tt.req); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
