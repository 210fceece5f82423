package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidOwnerID = errors.New("invalid owner ID")
	ErrAmountScale    = errors.New("amount has too many decimal places")
)

// Validation constants
const (
	MaxOwnerIDLength = 128
	MaxAmountScale   = 8
)

// ValidateAmount validates a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if -amount.Exponent() > MaxAmountScale {
		return fmt.Errorf("%w: %w: at most %d places", ErrInvalidAmount, ErrAmountScale, MaxAmountScale)
	}

	return nil
}

// ValidateOwnerID validates the directory identifier an account is opened for.
func ValidateOwnerID(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)

	if ownerID == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidOwnerID)
	}

	if len(ownerID) > MaxOwnerIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidOwnerID, MaxOwnerIDLength)
	}

	return nil
}

// ValidateOpeningBalance validates the balance an account is opened with.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 100
	const DefaultPageSize = 10

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
