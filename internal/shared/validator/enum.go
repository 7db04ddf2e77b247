package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/nccmultimedia/attendance-server/internal/model"
)

// ValidateRole accepts the empty string (defaulted later) or a known role.
func ValidateRole(fl validator.FieldLevel) bool {
	_, ok := model.ParseRole(fl.Field().String())
	return ok
}

// ValidateEvent accepts the empty string (defaulted later) or a known event.
func ValidateEvent(fl validator.FieldLevel) bool {
	_, ok := model.ParseEvent(fl.Field().String())
	return ok
}
