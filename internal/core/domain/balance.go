package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
)

// BalanceEntry is the quantity a user holds in one currency.
// The amount is never negative and only changes through Increment and Decrement.
type BalanceEntry struct {
	BalanceID string    `json:"balanceID"`
	UserID    string    `json:"userID"`
	Currency  Currency  `json:"currency"`
	Amount    Money     `json:"amount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBalanceEntry returns a zero balance for the given user and currency.
func NewBalanceEntry(balanceID, userID string, currency Currency, now time.Time) BalanceEntry {
	return BalanceEntry{
		BalanceID: balanceID,
		UserID:    userID,
		Currency:  currency,
		Amount:    ZeroMoney,
		UpdatedAt: now,
	}
}

// Increment adds amount to the balance. Negative amounts and results too large
// for storage are rejected untouched.
func (b *BalanceEntry) Increment(amount Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount to increment must not be negative, got %s", apperrors.ErrInvalidAmount, amount)
	}
	next := b.Amount.Add(amount)
	if !next.fits() {
		return fmt.Errorf("%w: %s balance would exceed %d integer digits", apperrors.ErrInvalidAmount, b.Currency, MoneyIntegerDigits)
	}
	b.Amount = next
	return nil
}

// Decrement subtracts amount from the balance. It fails without mutating when
// amount is negative or exceeds the current amount.
func (b *BalanceEntry) Decrement(amount Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount to decrement must not be negative, got %s", apperrors.ErrInvalidAmount, amount)
	}
	if err := b.CheckSufficient(amount); err != nil {
		return err
	}
	b.Amount = b.Amount.Subtract(amount)
	return nil
}

// CheckSufficient fails with an InsufficientBalanceError when amount exceeds the balance.
func (b BalanceEntry) CheckSufficient(amount Money) error {
	if b.Amount.LessThan(amount) {
		return &apperrors.InsufficientBalanceError{
			Currency:  b.Currency.String(),
			Available: b.Amount.String(),
			Required:  amount.String(),
		}
	}
	return nil
}
