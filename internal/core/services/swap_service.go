package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
)

type swapService struct {
	eventNotifier
	txManager    portsrepo.TransactionManager
	userRepo     portsrepo.UserReader
	balanceRepo  portsrepo.BalanceRepositoryFacade
	transferRepo portsrepo.TransferWriter
	selector     *ConversionSelector
}

// NewSwapService creates a swap service. publisher may be nil.
func NewSwapService(
	txManager portsrepo.TransactionManager,
	userRepo portsrepo.UserReader,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	transferRepo portsrepo.TransferWriter,
	selector *ConversionSelector,
	publisher portssvc.TransferEventPublisher,
) portssvc.SwapSvc {
	return &swapService{
		eventNotifier: eventNotifier{publisher: publisher},
		txManager:     txManager,
		userRepo:      userRepo,
		balanceRepo:   balanceRepo,
		transferRepo:  transferRepo,
		selector:      selector,
	}
}

var _ portssvc.SwapSvc = (*swapService)(nil)

// Swap converts req.Amount of req.Currency into req.TargetCurrency.
// Rates are resolved before the unit of work begins, so no row lock is held
// across a provider call. Sufficiency is checked again under the lock.
func (s *swapService) Swap(ctx context.Context, req dto.SwapRequest) (*domain.TransferRecord, error) {
	if strings.EqualFold(strings.TrimSpace(req.Currency), strings.TrimSpace(req.TargetCurrency)) {
		return nil, fmt.Errorf("%w: cannot swap %s into itself", apperrors.ErrInvalidRequest, req.Currency)
	}
	from, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseCurrency(req.TargetCurrency)
	if err != nil {
		return nil, err
	}
	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	logArgs := []any{
		slog.String("owner_id", req.UserID),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("amount", amount.String()),
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	source, err := s.balanceRepo.FindBalanceByUserAndCurrency(ctx, req.UserID, from)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: swap amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	legs, err := s.selector.ExecuteSwap(ctx, SwapInput{
		UserID: req.UserID,
		From:   from,
		To:     to,
		Amount: amount,
		Source: *source,
	})
	if err != nil {
		s.LogDebug(ctx, "Swap rejected before commit", append(logArgs, slog.String("error", err.Error()))...)
		return nil, err
	}
	logArgs = append(logArgs, slog.String("reference", *legs.Debit.Reference), slog.String("rate", legs.Rate.String()))

	if err := s.commit(ctx, req.UserID, amount, legs); err != nil {
		s.LogError(ctx, err, "Swap failed after pricing", logArgs...)
		s.recordFailure(ctx, legs)
		return nil, err
	}

	s.LogInfo(ctx, "Swap committed", append(logArgs, slog.String("credited", legs.Credit.Amount.String()))...)
	s.notify(ctx, legs.Records()...)
	return &legs.Credit, nil
}

// commit applies both balance mutations and inserts both legs in one unit of work.
func (s *swapService) commit(ctx context.Context, userID string, amount domain.Money, legs *domain.SwapLegs) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txManager.Rollback(ctx, tx)

	from, to := legs.Debit.Currency, legs.Credit.Currency
	locked, err := s.balanceRepo.FindBalancesForUpdate(ctx, tx, userID, from, to)
	if err != nil {
		return err
	}
	source, ok := locked[from]
	if !ok {
		return fmt.Errorf("%w: user %s has no %s balance", apperrors.ErrBalanceNotFound, userID, from)
	}
	destination, ok := locked[to]
	if !ok {
		return fmt.Errorf("%w: user %s has no %s balance", apperrors.ErrBalanceNotFound, userID, to)
	}

	// The debit uses the requested amount rather than a value re-derived from the draft.
	if err := source.Decrement(amount); err != nil {
		return err
	}
	if err := destination.Increment(legs.Credit.Amount); err != nil {
		return err
	}
	source.UpdatedAt = legs.Debit.CreatedAt
	destination.UpdatedAt = legs.Credit.CreatedAt

	if err := s.balanceRepo.UpdateBalancesInTx(ctx, tx, []domain.BalanceEntry{*source, *destination}); err != nil {
		return err
	}
	// Confirm a copy so the drafts stay PENDING if the commit does not go through.
	confirmed := *legs
	if err := confirmed.TransitionAll(domain.StatusConfirmed); err != nil {
		return err
	}
	if err := s.transferRepo.SaveTransfersInTx(ctx, tx, confirmed.Records()); err != nil {
		return err
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		return err
	}
	*legs = confirmed
	return nil
}

// recordFailure persists both legs as FAILED in a separate unit of work with no
// balance mutation, so an aborted swap leaves an explicit trail.
func (s *swapService) recordFailure(ctx context.Context, legs *domain.SwapLegs) {
	ctx = context.WithoutCancel(ctx)
	failed := *legs
	if err := failed.TransitionAll(domain.StatusFailed); err != nil {
		s.LogError(ctx, err, "Cannot mark swap legs as failed")
		return
	}

	reference := slog.String("reference", *failed.Debit.Reference)
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin swap failure audit", reference)
		return
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := s.transferRepo.SaveTransfersInTx(ctx, tx, failed.Records()); err != nil {
		s.LogError(ctx, err, "Failed to write swap failure audit", reference)
		return
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit swap failure audit", reference)
		return
	}
	s.notify(ctx, failed.Records()...)
}
