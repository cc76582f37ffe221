package pgsql

import (
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    &BaseRepository{Pool: dbPool},
		UserRepo:     newPgxUserRepository(dbPool),
		BalanceRepo:  newPgxBalanceRepository(dbPool),
		TransferRepo: newPgxTransferRepository(dbPool),
	}
}
