package validate

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct validates s against its `validate` tags.
func Struct(s interface{}) error {
	if err := get().Struct(s); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	return nil
}
