package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	"github.com/SscSPs/money_swap_app/internal/models"
	"github.com/SscSPs/money_swap_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, created_at)
		VALUES ($1, $2, $3);
	`
	_, err := tx.Exec(ctx, query, modelUser.UserID, modelUser.Name, modelUser.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, r.Pool, userID)
}

func (r *PgxUserRepository) FindUserByIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	return r.findUser(ctx, tx, userID)
}

func (r *PgxUserRepository) findUser(ctx context.Context, q querier, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, created_at
		FROM users
		WHERE user_id = $1;
	`
	var modelUser models.User
	err := q.QueryRow(ctx, query, userID).Scan(
		&modelUser.UserID,
		&modelUser.Name,
		&modelUser.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrOwnerNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	domainUser := mapping.ToDomainUser(modelUser)
	return &domainUser, nil
}
