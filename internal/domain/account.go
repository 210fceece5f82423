package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the single balance-holding record owned by a user.
type Account struct {
	ID             string
	OwnerID        string
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanCover checks if the account holds at least amount.
func (a *Account) CanCover(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDelta returns the balance after adding delta, or ErrInsufficientFunds
// when the result would drop below minBalance.
func (a *Account) ApplyDelta(delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	newBalance := a.Balance.Add(delta)
	if newBalance.LessThan(minBalance) {
		return a.Balance, ErrInsufficientFunds
	}
	return newBalance, nil
}
