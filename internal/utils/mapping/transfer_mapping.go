package mapping

import (
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/models"
)

// ToModelTransfer converts a domain TransferRecord to a model Transfer
func ToModelTransfer(d domain.TransferRecord) models.Transfer {
	return models.Transfer{
		TransferID: d.TransferID,
		Kind:       string(d.Kind),
		UserID:     d.UserID,
		Status:     string(d.Status),
		Amount:     d.Amount.Decimal(),
		Currency:   d.Currency.String(),
		Reference:  d.Reference,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainTransfer converts a model Transfer to a domain TransferRecord
func ToDomainTransfer(m models.Transfer) domain.TransferRecord {
	return domain.TransferRecord{
		TransferID: m.TransferID,
		Kind:       domain.TransferKind(m.Kind),
		UserID:     m.UserID,
		Status:     domain.TransferStatus(m.Status),
		Amount:     domain.NewMoneyFromDecimal(m.Amount),
		Currency:   domain.Currency(m.Currency),
		Reference:  m.Reference,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainTransferSlice converts a slice of model Transfers to a slice of domain TransferRecords
func ToDomainTransferSlice(ms []models.Transfer) []domain.TransferRecord {
	ds := make([]domain.TransferRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransfer(m)
	}
	return ds
}
