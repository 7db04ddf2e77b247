package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// phoneRegex matches Philippine mobile numbers
	// Formats: 09171234567, 0917-123-4567, +639171234567
	phoneRegex = regexp.MustCompile(`^(09|\+639)[0-9]{2}-?[0-9]{3}-?[0-9]{4}$`)
)

// ValidatePhone validates a mobile number. Pair with omitempty for optional fields.
func ValidatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	return phoneRegex.MatchString(phone)
}
