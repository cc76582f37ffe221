package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/core/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions a zero balance per currency", func(t *testing.T) {
		txManager, userRepo, balanceRepo := new(MockTxManager), new(MockUserRepository), new(MockBalanceRepository)
		tx := &fakeTx{}
		svc := services.NewUserService(txManager, userRepo, balanceRepo)

		txManager.On("Begin", ctx).Return(tx, nil).Once()
		userRepo.On("SaveUserInTx", ctx, tx, mock.MatchedBy(func(u domain.User) bool { return u.Name == "Ada" })).Return(nil).Once()
		balanceRepo.On("SaveBalancesInTx", ctx, tx, mock.MatchedBy(func(b []domain.BalanceEntry) bool {
			return len(b) == len(domain.SupportedCurrencies())
		})).Return(nil).Once()
		txManager.On("Commit", ctx, tx).Return(nil).Once()
		txManager.On("Rollback", ctx, tx).Return(nil).Once()

		user, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "  Ada "})

		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		assert.NotEmpty(t, user.UserID)
		require.Len(t, user.Balances, 4)
		for i, c := range domain.SupportedCurrencies() {
			assert.Equal(t, c, user.Balances[i].Currency)
			assert.Equal(t, user.UserID, user.Balances[i].UserID)
			assert.True(t, user.Balances[i].Amount.IsZero())
		}
		assert.Equal(t, time.UTC, user.CreatedAt.Location())
		txManager.AssertExpectations(t)
		userRepo.AssertExpectations(t)
		balanceRepo.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		txManager := new(MockTxManager)
		svc := services.NewUserService(txManager, new(MockUserRepository), new(MockBalanceRepository))

		_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "   "})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("balance provisioning failure aborts the user", func(t *testing.T) {
		txManager, userRepo, balanceRepo := new(MockTxManager), new(MockUserRepository), new(MockBalanceRepository)
		tx := &fakeTx{}
		svc := services.NewUserService(txManager, userRepo, balanceRepo)
		dbErr := errors.New("db down")

		txManager.On("Begin", ctx).Return(tx, nil).Once()
		userRepo.On("SaveUserInTx", ctx, tx, mock.Anything).Return(nil).Once()
		balanceRepo.On("SaveBalancesInTx", ctx, tx, mock.Anything).Return(dbErr).Once()
		txManager.On("Rollback", ctx, tx).Return(nil).Once()

		_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Ada"})

		assert.ErrorIs(t, err, dbErr)
		txManager.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	userRepo, balanceRepo := new(MockUserRepository), new(MockBalanceRepository)
	svc := services.NewUserService(new(MockTxManager), userRepo, balanceRepo)

	userRepo.On("FindUserByID", ctx, testUserID).Return(&domain.User{UserID: testUserID, Name: "Ada"}, nil).Once()
	balanceRepo.On("FindBalancesByUserID", ctx, testUserID).Return([]domain.BalanceEntry{
		*balanceOf(testUserID, domain.ARS, "0"),
		*balanceOf(testUserID, domain.USD, "1000"),
	}, nil).Once()

	user, err := svc.GetUserByID(ctx, testUserID)

	require.NoError(t, err)
	usd, ok := user.Balance(domain.USD)
	require.True(t, ok)
	assert.Equal(t, "1000", usd.Amount.String())

	userRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrOwnerNotFound).Once()
	_, err = svc.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)
}
