package dto

import (
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a new user.
type CreateUserRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// BalanceResponse is one currency balance of a user.
type BalanceResponse struct {
	Currency  domain.Currency `json:"currency"`
	Amount    string          `json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string            `json:"userID"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	Balances  []BalanceResponse `json:"balances"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	balances := make([]BalanceResponse, len(user.Balances))
	for i, b := range user.Balances {
		balances[i] = BalanceResponse{
			Currency:  b.Currency,
			Amount:    b.Amount.String(),
			UpdatedAt: b.UpdatedAt,
		}
	}
	return UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		Balances:  balances,
	}
}
