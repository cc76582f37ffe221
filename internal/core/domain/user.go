package domain

import "time"

// User owns exactly one BalanceEntry per supported currency from the moment it exists.
type User struct {
	UserID    string         `json:"userID"` // Primary Key (UUID)
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Balances  []BalanceEntry `json:"balances"`
}

// Balance returns the entry for currency, if present.
func (u User) Balance(currency Currency) (BalanceEntry, bool) {
	for _, b := range u.Balances {
		if b.Currency == currency {
			return b, true
		}
	}
	return BalanceEntry{}, false
}
