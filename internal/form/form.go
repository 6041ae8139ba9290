// Package form binds expense records to editable text state and back.
//
// A Form holds every field as the text the user typed. Validate turns that
// text into a Command for the store; Submit runs it and closes the form only
// when the store accepted the write.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/service"
	"github.com/shopspring/decimal"
)

// Field names a bound input.
type Field string

// Bound fields in display order.
const (
	FieldTitle    Field = "title"
	FieldAmount   Field = "amount"
	FieldCategory Field = "category"
	FieldDate     Field = "date"
	FieldNote     Field = "note"
)

// Fields lists the bound fields in display order.
var Fields = []Field{FieldTitle, FieldAmount, FieldCategory, FieldDate, FieldNote}

// Mode distinguishes adding a new expense from editing a stored one.
type Mode int

// Form modes.
const (
	ModeAdd Mode = iota
	ModeEdit
)

// State is the lifecycle state of a form.
type State int

// Form states.
const (
	StateEditing State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "editing"
}

// InitialAddCategory is the category preselected by a new add form.
const InitialAddCategory = model.CategoryFood

var (
	// ErrClosed is returned when acting on a form that is no longer editing.
	ErrClosed = errors.New("form is closed")
	// ErrNotEditable is returned when deleting from an add form.
	ErrNotEditable = errors.New("only edit forms can delete")
)

// Form is the editable text state of one expense.
type Form struct {
	values map[Field]string
	id     string
	// stored is the edited record's category, kept even when it is not
	// one of model.Categories.
	stored string
	mode   Mode
	state  State
}

// NewAddForm returns an empty add form dated today.
func NewAddForm(now time.Time) *Form {
	return &Form{
		mode:  ModeAdd,
		state: StateEditing,
		values: map[Field]string{
			FieldTitle:    "",
			FieldAmount:   "",
			FieldCategory: string(InitialAddCategory),
			FieldDate:     now.Format(model.DateLayout),
			FieldNote:     "",
		},
	}
}

// NewEditForm returns a form pre-populated from a stored expense.
func NewEditForm(e model.Expense) *Form {
	category := e.Category
	if strings.TrimSpace(category) == "" {
		category = string(model.CategoryOther)
	}

	date := ""
	if e.HasDate() {
		date = e.Date.Format(model.DateLayout)
	}

	return &Form{
		id:     e.ID,
		stored: category,
		mode:   ModeEdit,
		state:  StateEditing,
		values: map[Field]string{
			FieldTitle:    e.Title,
			FieldAmount:   e.Amount.String(),
			FieldCategory: category,
			FieldDate:     date,
			FieldNote:     e.Note,
		},
	}
}

// Mode reports whether the form adds or edits.
func (f *Form) Mode() Mode { return f.mode }

// State reports the lifecycle state.
func (f *Form) State() State { return f.state }

// ID returns the edited expense's id, empty for add forms.
func (f *Form) ID() string { return f.id }

// Value returns the current text of field.
func (f *Form) Value(field Field) string {
	return f.values[field]
}

// StoredCategory returns the category of the edited record, empty for add forms.
func (f *Form) StoredCategory() string { return f.stored }

// Set replaces the text of field.
func (f *Form) Set(field Field, value string) {
	f.values[field] = value
}

// Validate parses the form text into a store command.
// It returns a *ValidationError describing every invalid field.
func (f *Form) Validate() (Command, error) {
	verr := &ValidationError{}

	title := f.values[FieldTitle]
	if strings.TrimSpace(title) == "" {
		verr.add(FieldTitle, "title is required")
	}

	rawAmount := strings.TrimSpace(f.values[FieldAmount])
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		verr.add(FieldAmount, fmt.Sprintf("%q is not a number", rawAmount))
	}

	category := f.values[FieldCategory]
	if known, err := model.ParseCategory(category); err == nil {
		category = string(known)
	} else if f.mode != ModeEdit || category != f.stored {
		verr.add(FieldCategory, err.Error())
	}

	var date time.Time
	if rawDate := strings.TrimSpace(f.values[FieldDate]); rawDate != "" {
		date, err = model.ParseDate(rawDate)
		if err != nil {
			verr.add(FieldDate, fmt.Sprintf("%q is not a YYYY-MM-DD date", rawDate))
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	note := f.values[FieldNote]
	if f.mode == ModeAdd {
		return CreateExpense{Draft: model.Expense{
			Title:    title,
			Amount:   amount,
			Category: category,
			Date:     date,
			Note:     note,
		}}, nil
	}

	return UpdateExpense{
		ID: f.id,
		Update: model.ExpenseUpdate{
			Title:    &title,
			Amount:   &amount,
			Category: &category,
			Date:     &date,
			Note:     &note,
		},
	}, nil
}

// Submit validates the form and writes it through store.
// The form closes only when the write succeeded; on any error it stays editing.
func (f *Form) Submit(ctx context.Context, store service.ExpenseStore) error {
	if f.state != StateEditing {
		return ErrClosed
	}

	cmd, err := f.Validate()
	if err != nil {
		return err
	}

	if err := cmd.Execute(ctx, store); err != nil {
		return err
	}

	f.state = StateClosed
	return nil
}

// Cancel closes the form without writing.
func (f *Form) Cancel() {
	f.state = StateClosed
}

// Delete removes the edited expense and closes the form.
func (f *Form) Delete(ctx context.Context, store service.ExpenseStore) error {
	if f.state != StateEditing {
		return ErrClosed
	}
	if f.mode != ModeEdit {
		return ErrNotEditable
	}

	if err := store.Delete(ctx, f.id); err != nil {
		common.LogError(ctx, err, "Failed to delete expense", common.Fields{"id": f.id})
		return err
	}

	f.state = StateClosed
	return nil
}
