package dto

import (
	"fmt"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding tags used by the request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("category_code", validateCategoryCode)
}

func validateCategoryCode(fl validator.FieldLevel) bool {
	_, ok := domain.LookupCategory(fl.Field().String())
	return ok
}
