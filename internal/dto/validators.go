package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// cfopValidator accepts CFOP codes in either "1102" or "1.102" form.
func cfopValidator(fl validator.FieldLevel) bool {
	_, err := domain.NormalizeCFOP(fl.Field().String())
	return err == nil
}

// RegisterCustomValidators attaches domain-specific binding validators to the
// gin binding engine. Called once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cfop", cfopValidator)
}
