package services

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/dto"
)

// DepositSvc credits external value to a user balance.
type DepositSvc interface {
	// Deposit increments the balance and records a CONFIRMED DEPOSIT atomically.
	Deposit(ctx context.Context, req dto.DepositRequest) (*domain.TransferRecord, error)
}

// SwapSvc converts value between two balances of the same user.
type SwapSvc interface {
	// Swap debits the source balance, credits the converted amount to the target balance,
	// and records both legs under one reference. It returns the credit leg.
	Swap(ctx context.Context, req dto.SwapRequest) (*domain.TransferRecord, error)
}

// HistorySvc lists recorded transfers. It never mutates state.
type HistorySvc interface {
	ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error)
	// GetSwap returns both legs of a swap, debit first.
	GetSwap(ctx context.Context, reference string) ([]domain.TransferRecord, error)
}
