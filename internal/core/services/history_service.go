package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portsrepo "github.com/SscSPs/money_swap_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type historyService struct {
	BaseService
	userRepo     portsrepo.UserReader
	transferRepo portsrepo.TransferReader
}

func NewHistoryService(userRepo portsrepo.UserReader, transferRepo portsrepo.TransferReader) portssvc.HistorySvc {
	return &historyService{userRepo: userRepo, transferRepo: transferRepo}
}

var _ portssvc.HistorySvc = (*historyService)(nil)

// ListTransfers returns one page of a user's records, newest first.
func (s *historyService) ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error) {
	if _, err := s.userRepo.FindUserByID(ctx, params.UserID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, nextToken, err := s.transferRepo.ListTransfersByUser(ctx, params.UserID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransfersResponse{
		Transfers: dto.ToTransferResponses(records),
		NextToken: nextToken,
	}, nil
}

// GetSwap looks up the records sharing a swap reference.
func (s *historyService) GetSwap(ctx context.Context, reference string) ([]domain.TransferRecord, error) {
	records, err := s.transferRepo.FindTransfersByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("swap %s", reference))
	}
	return records, nil
}
