package tui

import "github.com/Veraticus/budjet/internal/model"

// Data loading messages.
type expensesLoadedMsg struct {
	err      error
	expenses []model.Expense
}

// Store mutation results.
type formSubmittedMsg struct {
	err  error
	mode string
}

type expenseDeletedMsg struct {
	err error
	id  string
}
