package services_test

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTx stands in for a pgx.Tx; the mocked repositories never call it.
type fakeTx struct {
	pgx.Tx
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindBalancesByUserID(ctx context.Context, userID string) ([]domain.BalanceEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceEntry), args.Error(1)
}

func (m *MockBalanceRepository) FindBalanceByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.BalanceEntry, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceEntry), args.Error(1)
}

func (m *MockBalanceRepository) FindBalancesForUpdate(ctx context.Context, tx pgx.Tx, userID string, currencies ...domain.Currency) (map[domain.Currency]*domain.BalanceEntry, error) {
	args := m.Called(ctx, tx, userID, currencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Currency]*domain.BalanceEntry), args.Error(1)
}

func (m *MockBalanceRepository) SaveBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error {
	return m.Called(ctx, tx, balances).Error(0)
}

func (m *MockBalanceRepository) UpdateBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.BalanceEntry) error {
	return m.Called(ctx, tx, balances).Error(0)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) ListTransfersByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TransferRecord, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.TransferRecord), next, args.Error(2)
}

func (m *MockTransferRepository) FindTransfersByReference(ctx context.Context, reference string) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) SaveTransfersInTx(ctx context.Context, tx pgx.Tx, records []domain.TransferRecord) error {
	return m.Called(ctx, tx, records).Error(0)
}

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, from, to domain.Currency) (domain.Rate, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.Rate), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransfers(ctx context.Context, records []domain.TransferRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func balanceOf(userID string, currency domain.Currency, amount string) *domain.BalanceEntry {
	return &domain.BalanceEntry{
		BalanceID: "bal-" + string(currency),
		UserID:    userID,
		Currency:  currency,
		Amount:    domain.MustParseMoney(amount),
	}
}
