package tools

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput wraps validation failures of a tool input
var ErrInvalidInput = errors.New("invalid tool input")

var validate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks the validate struct tags of v
func Validate(v any) error {
	if err := validate().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
