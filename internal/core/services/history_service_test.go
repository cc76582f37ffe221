package services_test

import (
	"context"
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

func TestHistoryService_ListTransfers(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.TransferRecord{{
		TransferID: "t-1",
		Kind:       domain.KindDeposit,
		UserID:     testUserID,
		Status:     domain.StatusConfirmed,
		Amount:     domain.MustParseMoney("100"),
		Currency:   domain.USD,
		CreatedAt:  created,
	}}

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default when unset", 0, services.DefaultHistoryLimit},
		{"clamped to max", 500, services.MaxHistoryLimit},
		{"passed through", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			transferRepo := new(MockTransferRepository)
			svc := services.NewHistoryService(userRepo, transferRepo)
			next := "bmV4dA=="

			userRepo.On("FindUserByID", ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
			transferRepo.On("ListTransfersByUser", ctx, testUserID, tt.wantLimit, (*string)(nil)).Return(records, &next, nil).Once()

			resp, err := svc.ListTransfers(ctx, dto.ListTransfersParams{UserID: testUserID, Limit: tt.limit})

			require.NoError(t, err)
			require.Len(t, resp.Transfers, 1)
			assert.Equal(t, "100", resp.Transfers[0].Amount)
			require.NotNil(t, resp.NextToken)
			assert.Equal(t, next, *resp.NextToken)
			userRepo.AssertExpectations(t)
			transferRepo.AssertExpectations(t)
		})
	}

	t.Run("unknown owner", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		transferRepo := new(MockTransferRepository)
		svc := services.NewHistoryService(userRepo, transferRepo)

		userRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrOwnerNotFound).Once()

		_, err := svc.ListTransfers(ctx, dto.ListTransfersParams{UserID: "missing"})

		assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)
		transferRepo.AssertNotCalled(t, "ListTransfersByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid token surfaces the repository error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		transferRepo := new(MockTransferRepository)
		svc := services.NewHistoryService(userRepo, transferRepo)
		bad := "not-a-token"

		userRepo.On("FindUserByID", ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
		transferRepo.On("ListTransfersByUser", ctx, testUserID, services.DefaultHistoryLimit, &bad).
			Return(nil, nil, apperrors.NewAppError(400, "invalid nextToken", nil)).Once()

		_, err := svc.ListTransfers(ctx, dto.ListTransfersParams{UserID: testUserID, NextToken: &bad})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}

func TestHistoryService_GetSwap(t *testing.T) {
	ctx := context.Background()
	ref := "01HV8Z1K9QW4C3R7T2M5N6P8XY"

	t.Run("returns both legs", func(t *testing.T) {
		transferRepo := new(MockTransferRepository)
		svc := services.NewHistoryService(new(MockUserRepository), transferRepo)
		legs := []domain.TransferRecord{
			{TransferID: "d-1", Kind: domain.KindSwap, Amount: domain.MustParseMoney("-100"), Currency: domain.USD, Reference: &ref},
			{TransferID: "c-1", Kind: domain.KindSwap, Amount: domain.MustParseMoney("35000"), Currency: domain.ARS, Reference: &ref},
		}
		transferRepo.On("FindTransfersByReference", ctx, ref).Return(legs, nil).Once()

		got, err := svc.GetSwap(ctx, ref)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Amount.IsNegative())
		transferRepo.AssertExpectations(t)
	})

	t.Run("unknown reference", func(t *testing.T) {
		transferRepo := new(MockTransferRepository)
		svc := services.NewHistoryService(new(MockUserRepository), transferRepo)
		transferRepo.On("FindTransfersByReference", ctx, ref).Return([]domain.TransferRecord{}, nil).Once()

		_, err := svc.GetSwap(ctx, ref)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
