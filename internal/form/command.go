package form

import (
	"context"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/service"
)

// Command is a validated change ready to be written to the store.
type Command interface {
	Execute(ctx context.Context, store service.ExpenseStore) error
}

// CreateExpense stores a new expense.
type CreateExpense struct {
	Draft model.Expense
}

// Execute implements Command.
func (c CreateExpense) Execute(ctx context.Context, store service.ExpenseStore) error {
	_, err := store.Create(ctx, c.Draft)
	return err
}

// UpdateExpense overwrites fields of a stored expense.
type UpdateExpense struct {
	ID     string
	Update model.ExpenseUpdate
}

// Execute implements Command.
func (c UpdateExpense) Execute(ctx context.Context, store service.ExpenseStore) error {
	return store.Update(ctx, c.ID, c.Update)
}
