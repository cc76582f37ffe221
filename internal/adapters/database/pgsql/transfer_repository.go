package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	"github.com/SscSPs/money_swap_app/internal/models"
	"github.com/SscSPs/money_swap_app/internal/utils/mapping"
	"github.com/SscSPs/money_swap_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transferColumns = `transfer_id, kind, user_id, status, amount, currency, reference, created_at`

const defaultTransferPageSize = 20

type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(db *pgxpool.Pool) portsrepo.TransferRepositoryFacade {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

// SaveTransfersInTx inserts the records in a single batch.
func (r *PgxTransferRepository) SaveTransfersInTx(ctx context.Context, tx pgx.Tx, records []domain.TransferRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelTransfer(rec)
		batch.Queue(query, m.TransferID, m.Kind, m.UserID, m.Status, m.Amount, m.Currency, m.Reference, m.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transfer records: %w", err)
	}
	return nil
}

// ListTransfersByUser retrieves a paginated list of a user's records using token-based pagination.
// Ordering is (created_at DESC, transfer_id DESC), which is stable for the two legs of a swap
// that share a timestamp.
func (r *PgxTransferRepository) ListTransfersByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TransferRecord, *string, error) {
	if limit <= 0 {
		limit = defaultTransferPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transferColumns + ` FROM transfers WHERE user_id = $1`
	orderByClause := `ORDER BY created_at DESC, transfer_id DESC`
	args := []any{userID}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, transfer_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transfers for user "+userID, err)
	}
	defer rows.Close()

	results, err := scanTransfers(rows, fetchLimit)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to read transfers for user "+userID, err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		// The token points to the last item included in this page.
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransferID)
		nextTokenVal = &token
		results = results[:limit]
	}

	return mapping.ToDomainTransferSlice(results), nextTokenVal, nil
}

func (r *PgxTransferRepository) FindTransfersByReference(ctx context.Context, reference string) ([]domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE reference = $1 ORDER BY amount ASC;`

	rows, err := r.Pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers by reference %s: %w", reference, err)
	}
	defer rows.Close()

	results, err := scanTransfers(rows, 2)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransferSlice(results), nil
}

func scanTransfers(rows pgx.Rows, capacity int) ([]models.Transfer, error) {
	results := make([]models.Transfer, 0, capacity)
	for rows.Next() {
		var m models.Transfer
		if err := rows.Scan(
			&m.TransferID,
			&m.Kind,
			&m.UserID,
			&m.Status,
			&m.Amount,
			&m.Currency,
			&m.Reference,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}
	return results, nil
}
