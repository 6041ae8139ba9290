// Package storage provides the data persistence layer for budjet.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/budjet/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidExpense = errors.New("invalid expense")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDraft checks the invariants the store itself owns.
// Field-level input rules (non-empty title, known category) belong to the forms.
func validateDraft(draft model.Expense) error {
	if draft.ID != "" {
		return fmt.Errorf("%w: id is assigned by the store", ErrInvalidExpense)
	}
	return nil
}
