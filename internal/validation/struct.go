package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report form field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError describes the first failing field of a struct.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message())
}

func (e *FieldError) Message() string {
	switch e.Tag {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", e.Param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param)
	case "url", "http_url":
		return "must be an absolute URL"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag)
	}
}

// Struct validates s by its `validate` tags and returns a *FieldError
// for the first failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if fe, ok := firstFieldError(err); ok {
		return fe
	}
	return err
}

func firstFieldError(err error) (*FieldError, bool) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return nil, false
	}
	fe := fieldErrors[0]
	return &FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}, true
}

// IsRequiredError reports whether err was caused by a missing field.
func IsRequiredError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe) && fe.Tag == "required"
}
