package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=2,max=64"`
	Password string `validate:"required,min=12,max=72"`
}

// ValidateRegister checks format rules before any expensive cryptographic
// work happens.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("registration rejected: %w", err)
	}
	return nil
}
