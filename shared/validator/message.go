package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"url":         "{field} must be a valid URL",
	"min":         "{field} must be at least {param}",
	"max":         "{field} must be at most {param}",
	"gte":         "{field} must be at least {param}",
	"lte":         "{field} must be at most {param}",
	"len":         "{field} must have a length of {param}",
	"oneof":       "{field} must be one of {param}",
	"datetime":    "{field} must match the layout {param}",
	"nefield":     "{field} must differ from {param}",
	"enum":        "{field} has an unsupported value",
	"notpast":     "{field} must be a date (YYYY-MM-DD) that is not in the past",
	"mimetypes":   "{field} must be one of the following types: {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message describes the first failed rule that has a template, falling back
// to the validator's own text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
	}

	return fieldErrors.Error()
}
