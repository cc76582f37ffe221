package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/SscSPs/money_swap_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps the ledger's error taxonomy to an HTTP status.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrUnsupportedCurrency),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrOwnerNotFound), errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRateUnavailable):
		return http.StatusBadGateway
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Server-side and upstream failures
// do not expose their detail.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusFor(err)

	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": msg})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	if status == http.StatusBadGateway {
		// Provider detail such as URLs and dial errors stays in the log.
		c.JSON(status, gin.H{"error": apperrors.ErrRateUnavailable.Error()})
		return
	}
	body := gin.H{"error": err.Error()}
	var insufficient *apperrors.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		body["currency"] = insufficient.Currency
		body["available"] = insufficient.Available
		body["required"] = insufficient.Required
	}
	c.JSON(status, body)
}
