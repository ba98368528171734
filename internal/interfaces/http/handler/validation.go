package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/buildpay/backend/internal/domain/billing"
)

// RegisterValidators installs custom binding validators. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", validatePaymentMethod)
}

// validateMoney accepts positive decimal strings with at most two
// fraction digits, e.g. "1500" or "1500.50".
func validateMoney(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if value.IsNegative() || value.IsZero() {
		return false
	}
	return value.Exponent() >= -2
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return billing.PaymentMethod(fl.Field().String()).IsValid()
}
