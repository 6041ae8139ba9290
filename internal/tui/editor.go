package tui

import (
	"slices"

	"github.com/Veraticus/budjet/internal/form"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// editor binds a form.Form to text inputs. The category field is a
// selector over model.Categories rather than free text.
type editor struct {
	form   *form.Form
	inputs map[form.Field]textinput.Model
	errors *form.ValidationError
	focus  int
	// category indexes model.Categories, or is -1 while a stored category
	// outside the enumeration is selected.
	category int
}

func newEditor(f *form.Form) editor {
	e := editor{
		form:     f,
		inputs:   make(map[form.Field]textinput.Model),
		category: -1,
	}

	placeholders := map[form.Field]string{
		form.FieldTitle:  "What was it?",
		form.FieldAmount: "0.00",
		form.FieldDate:   model.DateLayout,
		form.FieldNote:   "optional",
	}

	for _, field := range form.Fields {
		if field == form.FieldCategory {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = placeholders[field]
		ti.CharLimit = 120
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(f.Value(field))
		e.inputs[field] = ti
	}

	if c, err := model.ParseCategory(f.Value(form.FieldCategory)); err == nil {
		e.category = slices.Index(model.Categories, c)
	}
	if e.category < 0 && f.Mode() == form.ModeAdd {
		e.category = 0
	}

	e.focusField(0)
	return e
}

func (e editor) focused() form.Field {
	return form.Fields[e.focus]
}

func (e *editor) focusField(index int) tea.Cmd {
	n := len(form.Fields)
	e.focus = ((index % n) + n) % n

	var cmd tea.Cmd
	for field, ti := range e.inputs {
		if field == e.focused() {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		e.inputs[field] = ti
	}
	return cmd
}

func (e *editor) cycleCategory(delta int) {
	n := len(model.Categories)
	switch {
	case e.category >= 0:
		e.category = ((e.category+delta)%n + n) % n
	case delta < 0:
		e.category = n - 1
	default:
		e.category = 0
	}
	e.form.Set(form.FieldCategory, string(model.Categories[e.category]))
}

// categoryLabel is the category shown in the selector.
func (e editor) categoryLabel() string {
	if e.category < 0 {
		return e.form.Value(form.FieldCategory)
	}
	return string(model.Categories[e.category])
}

// sync copies the text inputs into the form. A stored category outside the
// enumeration is left as is until the user picks another one.
func (e *editor) sync() {
	for field, ti := range e.inputs {
		e.form.Set(field, ti.Value())
	}
	if e.category >= 0 {
		e.form.Set(form.FieldCategory, string(model.Categories[e.category]))
	}
}

func (e editor) updateInput(msg tea.Msg) (editor, tea.Cmd) {
	field := e.focused()
	ti, ok := e.inputs[field]
	if !ok {
		return e, nil
	}

	var cmd tea.Cmd
	ti, cmd = ti.Update(msg)
	e.inputs[field] = ti
	e.form.Set(field, ti.Value())
	return e, cmd
}

func (e editor) fieldError(field form.Field) string {
	if e.errors == nil {
		return ""
	}
	for _, fe := range e.errors.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}
