package crud

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrValidation marks errors raised before any network call because required
// fields are missing.
var ErrValidation = errors.New("validation failed")

// ValidationError lists the offending fields and carries the message shown to
// the user.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

// SafeMessage implements shared.SafeMessager.
func (e *ValidationError) SafeMessage() string {
	return e.Message
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validator runs struct-tag validation. "notblank" rejects whitespace-only
// strings; "required" on numeric ids rejects zero.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the notblank rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

var defaultValidator = NewValidator()

// Required validates record with the shared validator and returns a
// *ValidationError carrying message when any rule fails.
func Required(record any, message string) error {
	return defaultValidator.Check(record, message)
}

// Check validates record. Failures yield a *ValidationError carrying message.
func (v *Validator) Check(record any, message string) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Namespace())
	}
	return &ValidationError{Message: message, Fields: fields}
}
