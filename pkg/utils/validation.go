package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "mappamentis/pkg/errors"
)

var validate = validator.New()

// ValidateStruct validates a struct based on its validation tags
// Failures are reported as INVALID_ARGUMENT errors listing every offending field.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.NewInvalidArgumentError(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make(map[string]interface{}, len(validationErrors))
	for _, e := range validationErrors {
		msg := formatFieldError(e)
		messages = append(messages, msg)
		fields[strings.ToLower(e.Field())] = msg
	}

	return pkgerrors.NewInvalidArgumentError(strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "dive":
		return fmt.Sprintf("%s contains invalid values", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
