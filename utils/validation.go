package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry in a batched validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CollectBindingErrors flattens a gin binding failure into field errors so
// the client sees every problem at once instead of the first one. A
// non-validator error (malformed JSON) becomes a single body-level entry.
func CollectBindingErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "invalid request body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty.", fe.Field())
	case "min":
		return fmt.Sprintf("%s must not be less than %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not be greater than %s characters.", fe.Field(), fe.Param())
	case "email":
		return "Invalid email format."
	case "eqfield":
		return "Password does not match."
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
