package mapping

import (
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/models"
)

// ToModelBalance converts a domain BalanceEntry to a model Balance
func ToModelBalance(d domain.BalanceEntry) models.Balance {
	return models.Balance{
		BalanceID: d.BalanceID,
		UserID:    d.UserID,
		Currency:  d.Currency.String(),
		Amount:    d.Amount.Decimal(),
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainBalance converts a model Balance to a domain BalanceEntry
func ToDomainBalance(m models.Balance) domain.BalanceEntry {
	return domain.BalanceEntry{
		BalanceID: m.BalanceID,
		UserID:    m.UserID,
		Currency:  domain.Currency(m.Currency),
		Amount:    domain.NewMoneyFromDecimal(m.Amount),
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainBalanceSlice converts a slice of model Balances to a slice of domain BalanceEntries
func ToDomainBalanceSlice(ms []models.Balance) []domain.BalanceEntry {
	ds := make([]domain.BalanceEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBalance(m)
	}
	return ds
}
