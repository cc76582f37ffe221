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
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	userRepo    portsrepo.UserRepositoryFacade
	balanceRepo portsrepo.BalanceRepositoryFacade
}

func NewUserService(txManager portsrepo.TransactionManager, userRepo portsrepo.UserRepositoryFacade, balanceRepo portsrepo.BalanceRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{txManager: txManager, userRepo: userRepo, balanceRepo: balanceRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates the user and one zero balance per supported currency atomically.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	now := s.timestamp()
	user := domain.User{
		UserID:    uuid.NewString(),
		Name:      name,
		CreatedAt: now,
	}
	for _, c := range domain.SupportedCurrencies() {
		user.Balances = append(user.Balances, domain.NewBalanceEntry(uuid.NewString(), user.UserID, c, now))
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := s.userRepo.SaveUserInTx(ctx, tx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}
	if err := s.balanceRepo.SaveBalancesInTx(ctx, tx, user.Balances); err != nil {
		s.LogError(ctx, err, "Failed to provision balances", slog.String("owner_id", user.UserID))
		return nil, fmt.Errorf("failed to provision balances: %w", err)
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "User created", slog.String("owner_id", user.UserID))
	return &user, nil
}

// GetUserByID returns the user with all of its balances.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.FindBalancesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balances", slog.String("owner_id", userID))
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	user.Balances = balances
	return user, nil
}
