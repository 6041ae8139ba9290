package tui

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/budjet/internal/form"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoStore = errors.New("storage not configured")

// loadExpenses loads every expense from the store.
func (m Model) loadExpenses() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return expensesLoadedMsg{err: errNoStore}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		expenses, err := store.ListAll(ctx)
		return expensesLoadedMsg{expenses: expenses, err: err}
	}
}

// submitForm writes the form through the store.
func (m Model) submitForm(f *form.Form) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		mode := "added"
		if f.Mode() == form.ModeEdit {
			mode = "updated"
		}
		if store == nil {
			return formSubmittedMsg{mode: mode, err: errNoStore}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return formSubmittedMsg{mode: mode, err: f.Submit(ctx, store)}
	}
}

// deleteExpense removes the expense an edit form was opened on.
func (m Model) deleteExpense(f *form.Form) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return expenseDeletedMsg{id: f.ID(), err: errNoStore}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return expenseDeletedMsg{id: f.ID(), err: f.Delete(ctx, store)}
	}
}
