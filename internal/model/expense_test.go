package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpense_CategoryLabel(t *testing.T) {
	assert.Equal(t, "Food", Expense{Category: "Food"}.CategoryLabel())
	assert.Equal(t, CategoryUnknown, Expense{}.CategoryLabel())
	assert.Equal(t, CategoryUnknown, Expense{Category: "   "}.CategoryLabel())
	assert.Equal(t, "Travel", Expense{Category: "Travel"}.CategoryLabel())
}

func TestExpense_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Coffee", Expense{Title: "Coffee"}.DisplayTitle())
	assert.Equal(t, "Other", Expense{}.DisplayTitle())
}

func TestExpenseUpdate_Apply(t *testing.T) {
	original := Expense{
		ID:       "abc",
		Title:    "Coffee",
		Amount:   decimal.RequireFromString("4.50"),
		Category: "Food",
		Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Note:     "oat milk",
	}

	title := "X"
	updated := ExpenseUpdate{Title: &title}.Apply(original)

	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, original.ID, updated.ID)
	assert.True(t, original.Amount.Equal(updated.Amount))
	assert.Equal(t, original.Category, updated.Category)
	assert.Equal(t, original.Date, updated.Date)
	assert.Equal(t, original.Note, updated.Note)
	assert.Equal(t, "Coffee", original.Title, "apply must not mutate the input")
}

func TestExpenseUpdate_ApplyTruncatesDate(t *testing.T) {
	when := time.Date(2024, 3, 5, 17, 45, 12, 0, time.UTC)
	updated := ExpenseUpdate{Date: &when}.Apply(Expense{})
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), updated.Date)
}

func TestExpenseUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ExpenseUpdate{}.IsEmpty())
	note := ""
	assert.False(t, ExpenseUpdate{Note: &note}.IsEmpty())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 5, got.Day())

	_, err = ParseDate("05/03/2024")
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	march, err := NewPeriod(3, 2024)
	require.NoError(t, err)

	assert.True(t, march.Contains(time.Date(2024, 3, 31, 23, 0, 0, 0, time.Local)))
	assert.False(t, march.Contains(time.Date(2023, 3, 1, 0, 0, 0, 0, time.Local)))
	assert.False(t, march.Contains(time.Time{}))
	assert.Equal(t, "March 2024", march.String())

	assert.Equal(t, Period{Month: time.January, Year: 2025}, Period{Month: time.December, Year: 2024}.Next())
	assert.Equal(t, Period{Month: time.December, Year: 2023}, Period{Month: time.January, Year: 2024}.Previous())

	_, err = NewPeriod(13, 2024)
	assert.Error(t, err)
	_, err = NewPeriod(0, 2024)
	assert.Error(t, err)
}
