package repositories

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user without its balances.
	// Returns apperrors.ErrOwnerNotFound when no such user exists.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByIDInTx is FindUserByID within an open transaction.
	FindUserByIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUserInTx persists a new user within a transaction.
	SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
