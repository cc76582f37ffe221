package services

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
)

// RateQuoteProvider resolves the conversion rate for a currency pair.
// The returned rate converts one unit of from into units of to and is always positive.
// Any failure, timeout, or malformed quote is reported as apperrors.ErrRateUnavailable.
type RateQuoteProvider interface {
	GetRate(ctx context.Context, from, to domain.Currency) (domain.Rate, error)
}

// TransferEventPublisher announces committed transfer records to other systems.
// Publication is best-effort: callers log failures and never roll back on them.
type TransferEventPublisher interface {
	PublishTransfers(ctx context.Context, records []domain.TransferRecord) error
	Close() error
}
