package validator

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinicalos/clinic-api/internal/model"
)

// RegisterCustom installs domain validations on gin's binding engine.
// Tags registered here are usable in request struct binding tags.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("role", validRole); err != nil {
		return fmt.Errorf("failed to register role validation: %w", err)
	}

	return nil
}

// validRole accepts only the closed role vocabulary.
func validRole(fl validator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}
