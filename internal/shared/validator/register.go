package validator

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// GetValidator returns the validator instance from Gin binding
func GetValidator() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("gin binding engine is not go-playground/validator")
	}
	return v, nil
}

// RegisterAll registers every custom tag used by request DTOs. Safe to call
// more than once; only the first call registers.
func RegisterAll() error {
	var err error
	registerOnce.Do(func() {
		err = registerAll()
	})
	return err
}

func registerAll() error {
	v, err := GetValidator()
	if err != nil {
		return fmt.Errorf("get validator engine: %w", err)
	}

	tags := map[string]validator.Func{
		"phone": ValidatePhone,
		"role":  ValidateRole,
		"event": ValidateEvent,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	slog.Info("validators registered", "validators", "phone,role,event")
	return nil
}
