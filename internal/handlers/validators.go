package handlers

import (
	"sync"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the ledger's custom tags to gin's validator engine.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("supported_currency", validateSupportedCurrency)
		_ = v.RegisterValidation("decimal_positive", validateDecimalPositive)
	})
}

func validateSupportedCurrency(fl validator.FieldLevel) bool {
	_, err := domain.ParseCurrency(fl.Field().String())
	return err == nil
}

// validateDecimalPositive accepts a decimal string that parses as a positive Money.
func validateDecimalPositive(fl validator.FieldLevel) bool {
	m, err := domain.ParseMoney(fl.Field().String())
	return err == nil && m.IsPositive()
}
