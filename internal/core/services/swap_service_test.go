package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/SscSPs/money_swap_app/internal/core/services"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "7d4e8c1a-2f6b-4b1e-9c3d-5a6b7c8d9e0f"

type SwapServiceTestSuite struct {
	suite.Suite
	txManager    *MockTxManager
	userRepo     *MockUserRepository
	balanceRepo  *MockBalanceRepository
	transferRepo *MockTransferRepository
	fiatRates    *MockRateProvider
	cryptoRates  *MockRateProvider
	publisher    *MockPublisher
	tx           *fakeTx
	service      portssvc.SwapSvc
	ctx          context.Context
}

func (s *SwapServiceTestSuite) SetupTest() {
	s.txManager = new(MockTxManager)
	s.userRepo = new(MockUserRepository)
	s.balanceRepo = new(MockBalanceRepository)
	s.transferRepo = new(MockTransferRepository)
	s.fiatRates = new(MockRateProvider)
	s.cryptoRates = new(MockRateProvider)
	s.publisher = new(MockPublisher)
	s.tx = &fakeTx{}
	s.ctx = context.Background()

	selector := services.NewConversionSelector(s.fiatRates, s.cryptoRates, time.Second)
	s.service = services.NewSwapService(s.txManager, s.userRepo, s.balanceRepo, s.transferRepo, selector, s.publisher)
}

func (s *SwapServiceTestSuite) TearDownTest() {
	s.txManager.AssertExpectations(s.T())
	s.userRepo.AssertExpectations(s.T())
	s.balanceRepo.AssertExpectations(s.T())
	s.transferRepo.AssertExpectations(s.T())
	s.fiatRates.AssertExpectations(s.T())
	s.cryptoRates.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func TestSwapServiceSuite(t *testing.T) {
	suite.Run(t, new(SwapServiceTestSuite))
}

func (s *SwapServiceTestSuite) usdToArsRequest(amount string) dto.SwapRequest {
	return dto.SwapRequest{UserID: testUserID, Amount: amount, Currency: "USD", TargetCurrency: "ARS"}
}

// expectPricing sets up the reads and the USD/ARS quote that precede the unit of work.
func (s *SwapServiceTestSuite) expectPricing(sourceAmount string) {
	s.userRepo.On("FindUserByID", s.ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
	s.balanceRepo.On("FindBalanceByUserAndCurrency", s.ctx, testUserID, domain.USD).
		Return(balanceOf(testUserID, domain.USD, sourceAmount), nil).Once()
	s.fiatRates.On("GetRate", mock.Anything, domain.USD, domain.ARS).Return(domain.MustParseRate("350"), nil).Once()
}

func (s *SwapServiceTestSuite) expectLocked(locked map[domain.Currency]*domain.BalanceEntry) {
	s.balanceRepo.On("FindBalancesForUpdate", s.ctx, s.tx, testUserID, []domain.Currency{domain.USD, domain.ARS}).
		Return(locked, nil).Once()
}

func recordsWithStatus(status domain.TransferStatus) interface{} {
	return mock.MatchedBy(func(records []domain.TransferRecord) bool {
		if len(records) != 2 {
			return false
		}
		for _, r := range records {
			if r.Status != status {
				return false
			}
		}
		return *records[0].Reference == *records[1].Reference
	})
}

// expectFailureAudit sets up the separate unit of work that writes FAILED legs.
func (s *SwapServiceTestSuite) expectFailureAudit() {
	s.txManager.On("Begin", mock.Anything).Return(s.tx, nil).Once()
	s.transferRepo.On("SaveTransfersInTx", mock.Anything, s.tx, recordsWithStatus(domain.StatusFailed)).Return(nil).Once()
	s.txManager.On("Commit", mock.Anything, s.tx).Return(nil).Once()
	s.txManager.On("Rollback", mock.Anything, s.tx).Return(nil).Once()
	s.publisher.On("PublishTransfers", mock.Anything, recordsWithStatus(domain.StatusFailed)).Return(nil).Once()
}

func (s *SwapServiceTestSuite) TestSwap_FiatToFiatSuccess() {
	s.expectPricing("1000")
	s.txManager.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.expectLocked(map[domain.Currency]*domain.BalanceEntry{
		domain.USD: balanceOf(testUserID, domain.USD, "1000"),
		domain.ARS: balanceOf(testUserID, domain.ARS, "0"),
	})
	s.balanceRepo.On("UpdateBalancesInTx", s.ctx, s.tx, mock.MatchedBy(func(b []domain.BalanceEntry) bool {
		return len(b) == 2 &&
			b[0].Currency == domain.USD && b[0].Amount.Equal(domain.MustParseMoney("900")) &&
			b[1].Currency == domain.ARS && b[1].Amount.Equal(domain.MustParseMoney("35000"))
	})).Return(nil).Once()
	s.transferRepo.On("SaveTransfersInTx", s.ctx, s.tx, mock.MatchedBy(func(records []domain.TransferRecord) bool {
		return len(records) == 2 &&
			records[0].Status == domain.StatusConfirmed && records[0].Amount.Equal(domain.MustParseMoney("-100")) &&
			records[1].Status == domain.StatusConfirmed && records[1].Amount.Equal(domain.MustParseMoney("35000"))
	})).Return(nil).Once()
	s.txManager.On("Commit", s.ctx, s.tx).Return(nil).Once()
	s.txManager.On("Rollback", s.ctx, s.tx).Return(nil).Once()
	s.publisher.On("PublishTransfers", mock.Anything, recordsWithStatus(domain.StatusConfirmed)).Return(nil).Once()

	credit, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.Require().NoError(err)
	s.Equal(domain.KindSwap, credit.Kind)
	s.Equal(domain.StatusConfirmed, credit.Status)
	s.Equal(domain.ARS, credit.Currency)
	s.Equal("35000", credit.Amount.String())
	s.Require().NotNil(credit.Reference)
	s.Len(*credit.Reference, 26)
	s.cryptoRates.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_SameCurrency() {
	req := dto.SwapRequest{UserID: testUserID, Amount: "10", Currency: "usd", TargetCurrency: "USD"}

	_, err := s.service.Swap(s.ctx, req)

	s.ErrorIs(err, apperrors.ErrInvalidRequest)
	s.userRepo.AssertNotCalled(s.T(), "FindUserByID", mock.Anything, mock.Anything)
	s.txManager.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_UnsupportedCurrency() {
	_, err := s.service.Swap(s.ctx, dto.SwapRequest{UserID: testUserID, Amount: "10", Currency: "USD", TargetCurrency: "EUR"})
	s.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (s *SwapServiceTestSuite) TestSwap_MalformedAmount() {
	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("ten"))
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *SwapServiceTestSuite) TestSwap_OwnerNotFound() {
	s.userRepo.On("FindUserByID", s.ctx, testUserID).Return(nil, apperrors.ErrOwnerNotFound).Once()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, apperrors.ErrOwnerNotFound)
	s.balanceRepo.AssertNotCalled(s.T(), "FindBalanceByUserAndCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_NonPositiveAmount() {
	for _, amount := range []string{"0", "-5"} {
		s.Run(amount, func() {
			s.userRepo.On("FindUserByID", s.ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
			s.balanceRepo.On("FindBalanceByUserAndCurrency", s.ctx, testUserID, domain.USD).
				Return(balanceOf(testUserID, domain.USD, "1000"), nil).Once()

			_, err := s.service.Swap(s.ctx, s.usdToArsRequest(amount))

			s.ErrorIs(err, apperrors.ErrInvalidAmount)
		})
	}
	s.fiatRates.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_InsufficientBeforePricing() {
	s.userRepo.On("FindUserByID", s.ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
	s.balanceRepo.On("FindBalanceByUserAndCurrency", s.ctx, testUserID, domain.USD).
		Return(balanceOf(testUserID, domain.USD, "50"), nil).Once()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	var insufficient *apperrors.InsufficientBalanceError
	s.Require().True(errors.As(err, &insufficient))
	s.Equal("USD", insufficient.Currency)
	s.fiatRates.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
	s.txManager.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_RateUnavailable() {
	s.userRepo.On("FindUserByID", s.ctx, testUserID).Return(&domain.User{UserID: testUserID}, nil).Once()
	s.balanceRepo.On("FindBalanceByUserAndCurrency", s.ctx, testUserID, domain.USD).
		Return(balanceOf(testUserID, domain.USD, "1000"), nil).Once()
	s.fiatRates.On("GetRate", mock.Anything, domain.USD, domain.ARS).Return(domain.Rate{}, errors.New("503 from upstream")).Once()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, apperrors.ErrRateUnavailable)
	s.txManager.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_DrainedWhileUnlocked() {
	s.expectPricing("1000")
	s.txManager.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.expectLocked(map[domain.Currency]*domain.BalanceEntry{
		domain.USD: balanceOf(testUserID, domain.USD, "10"),
		domain.ARS: balanceOf(testUserID, domain.ARS, "0"),
	})
	s.txManager.On("Rollback", s.ctx, s.tx).Return(nil).Once()
	s.expectFailureAudit()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.balanceRepo.AssertNotCalled(s.T(), "UpdateBalancesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_DestinationBalanceMissing() {
	s.expectPricing("1000")
	s.txManager.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.expectLocked(map[domain.Currency]*domain.BalanceEntry{
		domain.USD: balanceOf(testUserID, domain.USD, "1000"),
	})
	s.txManager.On("Rollback", s.ctx, s.tx).Return(nil).Once()
	s.expectFailureAudit()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, apperrors.ErrBalanceNotFound)
	s.balanceRepo.AssertNotCalled(s.T(), "UpdateBalancesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SwapServiceTestSuite) TestSwap_CommitFails() {
	commitErr := errors.New("connection lost")
	s.expectPricing("1000")
	s.txManager.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.expectLocked(map[domain.Currency]*domain.BalanceEntry{
		domain.USD: balanceOf(testUserID, domain.USD, "1000"),
		domain.ARS: balanceOf(testUserID, domain.ARS, "0"),
	})
	s.balanceRepo.On("UpdateBalancesInTx", s.ctx, s.tx, mock.Anything).Return(nil).Once()
	s.transferRepo.On("SaveTransfersInTx", s.ctx, s.tx, recordsWithStatus(domain.StatusConfirmed)).Return(nil).Once()
	s.txManager.On("Commit", s.ctx, s.tx).Return(commitErr).Once()
	s.txManager.On("Rollback", s.ctx, s.tx).Return(nil).Once()
	s.expectFailureAudit()

	_, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.ErrorIs(err, commitErr)
}

func (s *SwapServiceTestSuite) TestSwap_PublishFailureIsNotFatal() {
	s.expectPricing("1000")
	s.txManager.On("Begin", s.ctx).Return(s.tx, nil).Once()
	s.expectLocked(map[domain.Currency]*domain.BalanceEntry{
		domain.USD: balanceOf(testUserID, domain.USD, "1000"),
		domain.ARS: balanceOf(testUserID, domain.ARS, "0"),
	})
	s.balanceRepo.On("UpdateBalancesInTx", s.ctx, s.tx, mock.Anything).Return(nil).Once()
	s.transferRepo.On("SaveTransfersInTx", s.ctx, s.tx, mock.Anything).Return(nil).Once()
	s.txManager.On("Commit", s.ctx, s.tx).Return(nil).Once()
	s.txManager.On("Rollback", s.ctx, s.tx).Return(nil).Once()
	s.publisher.On("PublishTransfers", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	credit, err := s.service.Swap(s.ctx, s.usdToArsRequest("100"))

	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, credit.Status)
}
