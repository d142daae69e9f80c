package router

import (
	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// RequestValidator is an echo.Validator backed by go-playground/validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.NewValidationWrap("invalid request", err)
	}
	return nil
}
