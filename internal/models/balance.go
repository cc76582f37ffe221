package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a row of the user_balances table. Amount is NUMERIC(36, 8).
type Balance struct {
	BalanceID string          `db:"balance_id"`
	UserID    string          `db:"user_id"`
	Currency  string          `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
	UpdatedAt time.Time       `db:"updated_at"`
}
