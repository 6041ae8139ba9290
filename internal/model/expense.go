package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for storage and input.
const DateLayout = "2006-01-02"

// Expense is a single user-entered spending record.
type Expense struct {
	Date     time.Time // Calendar date; zero when the record has none
	ID       string
	Title    string
	Category string
	Note     string
	Amount   decimal.Decimal
}

// HasDate reports whether the expense carries a calendar date.
func (e Expense) HasDate() bool {
	return !e.Date.IsZero()
}

// CategoryLabel returns the category used for grouping, mapping blank
// categories to CategoryUnknown.
func (e Expense) CategoryLabel() string {
	if strings.TrimSpace(e.Category) == "" {
		return CategoryUnknown
	}
	return e.Category
}

// DisplayTitle returns the title shown in lists.
func (e Expense) DisplayTitle() string {
	if e.Title == "" {
		return string(CategoryOther)
	}
	return e.Title
}

// ExpenseUpdate names the fields to overwrite on an existing expense.
// Nil fields are left untouched.
type ExpenseUpdate struct {
	Title    *string
	Amount   *decimal.Decimal
	Category *string
	Date     *time.Time
	Note     *string
}

// IsEmpty reports whether the update changes nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Title == nil && u.Amount == nil && u.Category == nil && u.Date == nil && u.Note == nil
}

// Apply returns a copy of e with the update's fields overwritten.
func (u ExpenseUpdate) Apply(e Expense) Expense {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Date != nil {
		e.Date = CalendarDate(*u.Date)
	}
	if u.Note != nil {
		e.Note = *u.Note
	}
	return e
}

// CalendarDate truncates t to midnight in its own location.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD calendar date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}
