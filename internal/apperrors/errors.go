package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger failure kinds. Every one of them is recoverable at the operation boundary.
var (
	// ErrInvalidAmount covers non-numeric, negative, or zero-where-positive-required amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance indicates the requested amount exceeds the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidRequest indicates nonsensical parameters, e.g. a same-currency swap.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOwnerNotFound indicates the referenced user does not exist.
	ErrOwnerNotFound = errors.New("user not found")

	// ErrBalanceNotFound indicates a user has no balance entry for a currency.
	// Balances are provisioned eagerly, so this is an integrity violation.
	ErrBalanceNotFound = errors.New("balance not found")

	// ErrUnsupportedCurrency indicates a currency code outside the supported set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrRateUnavailable indicates the rate quote provider failed, timed out,
	// or returned a malformed or non-positive rate.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// InsufficientBalanceError reports the exact quantities involved in a failed debit.
type InsufficientBalanceError struct {
	Currency  string
	Available string
	Required  string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: %s available %s, required %s", ErrInsufficientBalance.Error(), e.Currency, e.Available, e.Required)
}

// Is lets errors.Is(err, ErrInsufficientBalance) match.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// AppError carries an HTTP-ish status code alongside an infrastructure failure.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}
