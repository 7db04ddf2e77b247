package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nccmultimedia/attendance-server/internal/model"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
)

// ToErrorResponse converts gin binding/validator errors into a standardized response.
func ToErrorResponse(err error) (*sharedError.ErrorResponse, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	if len(validationErrors) == 0 {
		return nil, false
	}

	// first error only
	fieldErr := validationErrors[0]
	message := getErrorMessage(fieldErr)

	resp := sharedError.ValidationFailed
	resp.Message = message
	return &resp, true
}

// getErrorMessage returns user-friendly error message for validation error
func getErrorMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return "email is not a valid address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "phone":
		return "contact must be a mobile number (09XXXXXXXXX)."
	case "role":
		return fmt.Sprintf("role must be one of %s.", joinRoles())
	case "event":
		return fmt.Sprintf("event must be one of %s.", joinEvents())
	default:
		return fmt.Sprintf("'%s' is invalid.", fe.Field())
	}
}

func joinRoles() string {
	s := make([]string, len(model.Roles))
	for i, r := range model.Roles {
		s[i] = string(r)
	}
	return strings.Join(s, ", ")
}

func joinEvents() string {
	s := make([]string, len(model.Events))
	for i, e := range model.Events {
		s[i] = string(e)
	}
	return strings.Join(s, ", ")
}
