package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/turtle-hero/internal/types"
)

// Validator wraps the struct-tag validator used for content files
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the game's custom rules
func NewValidator() *Validator {
	v := validator.New()

	// Register custom validation for item types
	if err := v.RegisterValidation("itemtype", validateItemType); err != nil {
		panic(fmt.Sprintf("register itemtype validation: %v", err))
	}

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return errors.New(FormatValidationError(err))
	}
	return nil
}

// FormatValidationError flattens validator errors into one readable line
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "itemtype":
			msgs = append(msgs, fmt.Sprintf("%s is not a known item type", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func validateItemType(fl validator.FieldLevel) bool {
	return types.ItemType(fl.Field().Int()).Valid()
}
