package http

import (
	"github.com/go-playground/validator/v10"

	"bitversity/internal/pkg/errs"
)

// requestValidator plugs go-playground/validator into echo.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
