package repositories

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BalanceReader defines read operations for balance entries
type BalanceReader interface {
	// FindBalancesByUserID returns all entries of a user, ordered by currency.
	FindBalancesByUserID(ctx context.Context, userID string) ([]domain.BalanceEntry, error)

	// FindBalanceByUserAndCurrency returns a single unlocked entry.
	// Returns apperrors.ErrBalanceNotFound when the entry is missing.
	FindBalanceByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.BalanceEntry, error)
}

// BalanceLocker defines locking reads used inside a unit of work
type BalanceLocker interface {
	// FindBalancesForUpdate locks the requested entries of a user (SELECT ... FOR UPDATE)
	// in currency order and returns them keyed by currency. Currencies without an entry
	// are absent from the map.
	FindBalancesForUpdate(ctx context.Context, tx pgx.Tx, userID string, currencies ...domain.Currency) (map[domain.Currency]*domain.BalanceEntry, error)
}

// BalanceWriter defines write operations for balance entries
type BalanceWriter interface {
	// SaveBalancesInTx inserts new entries.
	SaveBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error

	// UpdateBalancesInTx writes the amounts of already locked entries.
	UpdateBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error
}

// BalanceRepositoryFacade combines all balance-related repository interfaces
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceLocker
	BalanceWriter
}
