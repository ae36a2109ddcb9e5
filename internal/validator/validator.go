// Package validator checks request structs against go-playground/validator
// tags and reports problems per JSON field.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fleveque/logolist/internal/model"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so details match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func, both constant here.
	_ = v.RegisterValidation("logosize", func(fl validator.FieldLevel) bool {
		return model.ValidSize(fl.Field().String())
	})
	_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return IsRGBHex(fl.Field().String())
	})
	return v
}

// Validate validates a struct using its `validate` tags. It returns a
// *ValidationError when any field is invalid.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// IsRGBHex reports whether s is an RRGGBB colour, with or without '#'.
func IsRGBHex(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// ValidationError wraps validator.ValidationErrors with a user-friendly message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", err.Field(), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		fields[err.Field()] = msgForTag(err)
	}
	return fields
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid http or https URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "logosize":
		return "must be one of xs, s, m, l, xl"
	case "rgbhex":
		return "must be a hex colour like ffffff"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
