package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_inventory/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(err.Error())
	}
	fields := formatValidationErrors(verrs)
	return domain.Invalid(fields[0].Message, fields...)
}

func formatValidationErrors(errs validator.ValidationErrors) []domain.FieldError {
	out := make([]domain.FieldError, 0, len(errs))
	for _, err := range errs {
		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", err.Field())
		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
			} else {
				msg = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("%s must not exceed %s characters", err.Field(), err.Param())
			} else {
				msg = fmt.Sprintf("%s must not exceed %s", err.Field(), err.Param())
			}
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "uuid":
			msg = fmt.Sprintf("%s must be a valid UUID", err.Field())
		default:
			msg = fmt.Sprintf("%s failed on the '%s' rule", err.Field(), err.Tag())
		}
		out = append(out, domain.FieldError{Field: err.Field(), Message: msg, Code: err.Tag()})
	}
	return out
}
