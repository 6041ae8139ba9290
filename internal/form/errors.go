package form

import (
	"strings"

	"github.com/Veraticus/budjet/internal/common"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   Field
	Message string
}

// ValidationError lists every invalid field of a form.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) add(field Field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Has reports whether field failed.
func (e *ValidationError) Has(field Field) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return common.ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match common.ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return common.ErrValidationFailed
}
