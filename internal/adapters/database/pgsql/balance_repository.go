package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	"github.com/SscSPs/money_swap_app/internal/models"
	"github.com/SscSPs/money_swap_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const balanceColumns = `balance_id, user_id, currency, amount, updated_at`

type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(db *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

func scanBalance(row pgx.Row) (models.Balance, error) {
	var m models.Balance
	err := row.Scan(&m.BalanceID, &m.UserID, &m.Currency, &m.Amount, &m.UpdatedAt)
	return m, err
}

// FindBalancesByUserID returns every entry of a user ordered by currency.
func (r *PgxBalanceRepository) FindBalancesByUserID(ctx context.Context, userID string) ([]domain.BalanceEntry, error) {
	query := `SELECT ` + balanceColumns + ` FROM user_balances WHERE user_id = $1 ORDER BY currency;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for user %s: %w", userID, err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		m, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}
	return mapping.ToDomainBalanceSlice(balances), nil
}

func (r *PgxBalanceRepository) FindBalanceByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.BalanceEntry, error) {
	query := `SELECT ` + balanceColumns + ` FROM user_balances WHERE user_id = $1 AND currency = $2;`

	m, err := scanBalance(r.Pool.QueryRow(ctx, query, userID, currency.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s has no %s balance", apperrors.ErrBalanceNotFound, userID, currency)
		}
		return nil, fmt.Errorf("failed to find %s balance for user %s: %w", currency, userID, err)
	}
	b := mapping.ToDomainBalance(m)
	return &b, nil
}

// FindBalancesForUpdate locks the requested rows and must be called within a transaction.
// Rows are locked in currency order so that concurrent swaps in opposite directions
// acquire locks in the same sequence.
func (r *PgxBalanceRepository) FindBalancesForUpdate(ctx context.Context, tx pgx.Tx, userID string, currencies ...domain.Currency) (map[domain.Currency]*domain.BalanceEntry, error) {
	result := make(map[domain.Currency]*domain.BalanceEntry, len(currencies))
	if len(currencies) == 0 {
		return result, nil
	}

	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.String())
	}
	sort.Strings(codes)

	query := `
		SELECT ` + balanceColumns + `
		FROM user_balances
		WHERE user_id = $1 AND currency = ANY($2)
		ORDER BY currency
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, userID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for update: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked balance row: %w", err)
		}
		b := mapping.ToDomainBalance(m)
		result[b.Currency] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked balance rows: %w", err)
	}
	return result, nil
}

func (r *PgxBalanceRepository) SaveBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error {
	if len(balances) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_balances (balance_id, user_id, currency, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		m := mapping.ToModelBalance(b)
		batch.Queue(query, m.BalanceID, m.UserID, m.Currency, m.Amount, m.UpdatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert balances: %w", err)
	}
	return nil
}

// UpdateBalancesInTx writes absolute amounts of rows already locked by FindBalancesForUpdate.
func (r *PgxBalanceRepository) UpdateBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error {
	if len(balances) == 0 {
		return nil
	}
	query := `
		UPDATE user_balances
		SET amount = $2, updated_at = $3
		WHERE balance_id = $1;
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		m := mapping.ToModelBalance(b)
		batch.Queue(query, m.BalanceID, m.Amount, m.UpdatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance %s: %w", balances[i].BalanceID, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: balance %s vanished during update", apperrors.ErrBalanceNotFound, balances[i].BalanceID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
