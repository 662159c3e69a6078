package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// RegisterValidators adds the domain enum tags used in DTO binding rules to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("register txtype: %w", err)
	}
	if err := v.RegisterValidation("invstatus", func(fl validator.FieldLevel) bool {
		return domain.InvoiceStatus(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("register invstatus: %w", err)
	}
	return nil
}
