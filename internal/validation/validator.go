package validation

import (
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/hoocms/customers/internal/errors"
	"github.com/labstack/echo/v4"
)

// EchoValidator adapts go-playground validator to echo Validator contract.
// The first violation encountered wins, violations are not aggregated
type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		first := ve[0]
		return apperrors.NewBusinessErr(first.Field(), first.Translate(v.translator))
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
