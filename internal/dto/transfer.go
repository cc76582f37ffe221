package dto

import (
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
)

// DepositRequest defines the data needed to credit a balance.
// Amount is a decimal string so it never passes through float64.
type DepositRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Amount   string `json:"amount" binding:"required,decimal_positive"`
	Currency string `json:"currency" binding:"required,supported_currency"`
}

// SwapRequest defines the data needed to convert between two balances.
type SwapRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	Amount         string `json:"amount" binding:"required,decimal_positive"`
	Currency       string `json:"currency" binding:"required,supported_currency"`
	TargetCurrency string `json:"target_currency" binding:"required,supported_currency"`
}

// ListTransfersParams defines query parameters for listing transfers.
type ListTransfersParams struct {
	UserID    string  `form:"-"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// TransferResponse defines the data returned for a transfer record.
type TransferResponse struct {
	TransferID string    `json:"transferID"`
	Kind       string    `json:"kind"`
	UserID     string    `json:"userID"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Reference  *string   `json:"reference,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListTransfersResponse wraps a page of transfers.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTransferResponse converts a domain.TransferRecord to TransferResponse DTO.
func ToTransferResponse(t *domain.TransferRecord) TransferResponse {
	return TransferResponse{
		TransferID: t.TransferID,
		Kind:       string(t.Kind),
		UserID:     t.UserID,
		Status:     string(t.Status),
		Amount:     t.Amount.String(),
		Currency:   t.Currency.String(),
		Reference:  t.Reference,
		CreatedAt:  t.CreatedAt,
	}
}

// ToTransferResponses converts a slice of domain.TransferRecord to []TransferResponse.
func ToTransferResponses(records []domain.TransferRecord) []TransferResponse {
	responses := make([]TransferResponse, len(records))
	for i := range records {
		responses[i] = ToTransferResponse(&records[i])
	}
	return responses
}
