package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator adapts go-playground/validator to echo's Validator
// interface, reporting failures by the field's json name.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator assigned to echo.Echo.Validator.
func NewValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate satisfies echo.Validator.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) {
		return err
	}
	msgs := make([]string, 0, len(fails))
	for _, fail := range fails {
		msgs = append(msgs, describe(fail))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fail validator.FieldError) string {
	field := fail.Field()
	switch fail.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fail.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", field, fail.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fail.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fail.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fail.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fail.Tag())
	}
}
