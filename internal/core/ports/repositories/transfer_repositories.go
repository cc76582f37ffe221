package repositories

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransferReader defines read operations for transfer records
type TransferReader interface {
	// ListTransfersByUser retrieves a page of a user's records, newest first.
	// It returns the records, a token for the next page (nil on the last page), and an error.
	ListTransfersByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TransferRecord, *string, error)

	// FindTransfersByReference returns every record sharing a correlation reference.
	FindTransfersByReference(ctx context.Context, reference string) ([]domain.TransferRecord, error)
}

// TransferWriter defines write operations for transfer records.
// Records are append-only: there is no update.
type TransferWriter interface {
	// SaveTransfersInTx inserts records within a transaction.
	SaveTransfersInTx(ctx context.Context, tx pgx.Tx, records []domain.TransferRecord) error
}

// TransferRepositoryFacade combines all transfer-related repository interfaces
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}
