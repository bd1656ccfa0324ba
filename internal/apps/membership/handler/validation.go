package handler

import (
	"errors"

	"membership-backend/internal/apps/membership/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingValidators installs the membership validators on gin's binding engine
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return models.RegisterValidators(v)
}
