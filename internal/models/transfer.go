package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a row of the transfers table.
type Transfer struct {
	TransferID string          `db:"transfer_id"`
	Kind       string          `db:"kind"`
	UserID     string          `db:"user_id"`
	Status     string          `db:"status"`
	Amount     decimal.Decimal `db:"amount"`
	Currency   string          `db:"currency"`
	Reference  *string         `db:"reference"`
	CreatedAt  time.Time       `db:"created_at"`
}
