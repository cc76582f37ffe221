package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
	"github.com/google/uuid"
)

type depositService struct {
	eventNotifier
	txManager    portsrepo.TransactionManager
	userRepo     portsrepo.UserReader
	balanceRepo  portsrepo.BalanceRepositoryFacade
	transferRepo portsrepo.TransferWriter
}

// NewDepositService creates a deposit service. publisher may be nil.
func NewDepositService(
	txManager portsrepo.TransactionManager,
	userRepo portsrepo.UserReader,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	transferRepo portsrepo.TransferWriter,
	publisher portssvc.TransferEventPublisher,
) portssvc.DepositSvc {
	return &depositService{
		eventNotifier: eventNotifier{publisher: publisher},
		txManager:     txManager,
		userRepo:      userRepo,
		balanceRepo:   balanceRepo,
		transferRepo:  transferRepo,
	}
}

var _ portssvc.DepositSvc = (*depositService)(nil)

// Deposit credits req.Amount to the user's req.Currency balance and records a
// CONFIRMED DEPOSIT in the same unit of work.
func (s *depositService) Deposit(ctx context.Context, req dto.DepositRequest) (*domain.TransferRecord, error) {
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin deposit transaction")
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	if _, err := s.userRepo.FindUserByIDInTx(ctx, tx, req.UserID); err != nil {
		return nil, err
	}

	locked, err := s.balanceRepo.FindBalancesForUpdate(ctx, tx, req.UserID, currency)
	if err != nil {
		return nil, err
	}
	balance, ok := locked[currency]
	if !ok {
		err := fmt.Errorf("%w: user %s has no %s balance", apperrors.ErrBalanceNotFound, req.UserID, currency)
		s.LogError(ctx, err, "Balance integrity violation", slog.String("owner_id", req.UserID))
		return nil, err
	}

	if err := balance.Increment(amount); err != nil {
		return nil, err
	}
	now := s.timestamp()
	balance.UpdatedAt = now

	if err := s.balanceRepo.UpdateBalancesInTx(ctx, tx, []domain.BalanceEntry{*balance}); err != nil {
		return nil, err
	}

	record := domain.TransferRecord{
		TransferID: uuid.NewString(),
		Kind:       domain.KindDeposit,
		UserID:     req.UserID,
		Status:     domain.StatusPending,
		Amount:     amount,
		Currency:   currency,
		CreatedAt:  now,
	}
	if err := record.Transition(domain.StatusConfirmed); err != nil {
		return nil, err
	}
	if err := s.transferRepo.SaveTransfersInTx(ctx, tx, []domain.TransferRecord{record}); err != nil {
		return nil, err
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit deposit", slog.String("owner_id", req.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Deposit committed",
		slog.String("owner_id", req.UserID),
		slog.String("currency", currency.String()),
		slog.String("amount", amount.String()),
		slog.String("transfer_id", record.TransferID))
	s.notify(ctx, record)
	return &record, nil
}
