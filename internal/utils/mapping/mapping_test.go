package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTransferMapping(t *testing.T) {
	ref := "01J9ZQ3XKQ7B5N2M1C0V8R6T4Y"
	d := domain.TransferRecord{
		TransferID: "t-1",
		Kind:       domain.KindSwap,
		UserID:     "u-1",
		Status:     domain.StatusConfirmed,
		Amount:     domain.MustParseMoney("-0.1"),
		Currency:   domain.BTC,
		Reference:  &ref,
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	m := ToModelTransfer(d)
	assert.Equal(t, "SWAP", m.Kind)
	assert.Equal(t, "BTC", m.Currency)
	assert.Equal(t, "-0.1", m.Amount.String())

	back := ToDomainTransfer(m)
	assert.True(t, d.Amount.Equal(back.Amount))
	assert.Equal(t, d.Kind, back.Kind)
	assert.Equal(t, d.Status, back.Status)
	assert.Equal(t, d.Reference, back.Reference)
	assert.Equal(t, d.CreatedAt, back.CreatedAt)
}

func TestToDomainBalanceSlice(t *testing.T) {
	now := time.Now()
	entries := []domain.BalanceEntry{
		domain.NewBalanceEntry("b-1", "u-1", domain.ARS, now),
		domain.NewBalanceEntry("b-2", "u-1", domain.ETH, now),
	}
	entries[1].Amount = domain.MustParseMoney("2.5")

	rows := []models.Balance{ToModelBalance(entries[0]), ToModelBalance(entries[1])}
	assert.Equal(t, "2.5", rows[1].Amount.String())

	got := ToDomainBalanceSlice(rows)
	assert.Equal(t, domain.ARS, got[0].Currency)
	assert.True(t, got[0].Amount.IsZero())
	assert.Equal(t, "2.5", got[1].Amount.String())
}
