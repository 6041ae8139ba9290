// Package tui implements the interactive expense browser.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/budjet/internal/form"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/Veraticus/budjet/internal/service"
	"github.com/Veraticus/budjet/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateLoading State = iota
	StateList
	StateForm
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowExpense
)

// row is one selectable line of the grouped list.
type row struct {
	expense model.Expense
	group   report.Group
	kind    rowKind
}

// Model holds the main TUI state.
type Model struct {
	theme    themes.Theme
	lastErr  error
	store    service.ExpenseStore
	now      func() time.Time
	editor   *editor
	expanded map[string]bool
	spinner  spinner.Model
	help     help.Model
	keymap   KeyMap
	formKeys FormKeyMap
	status   string
	symbol   string
	expenses []model.Expense
	rows     []row
	agg      report.MonthlyAggregate
	period   model.Period
	cursor   int
	offset   int
	width    int
	height   int
	state    State
	showHelp bool
	saving   bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(cfg.Theme.Primary)

	h := help.New()
	h.Width = cfg.Width

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		theme:    cfg.Theme,
		store:    cfg.Store,
		now:      now,
		expanded: make(map[string]bool),
		spinner:  s,
		help:     h,
		keymap:   DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
		symbol:   cfg.CurrencySymbol,
		period:   model.CurrentPeriod(now()),
		width:    cfg.Width,
		height:   cfg.Height,
		state:    StateLoading,
		showHelp: cfg.ShowHelp,
	}
	m.recompute()
	return m
}

// Init starts the spinner and loads the expenses.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadExpenses())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clamp()
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case expensesLoadedMsg:
		if m.state == StateLoading {
			m.state = StateList
		}
		if msg.err != nil {
			m.setError("Failed to load expenses", msg.err)
			return m, nil
		}
		m.expenses = msg.expenses
		m.recompute()
		return m, nil

	case formSubmittedMsg:
		return m.handleSubmitted(msg)

	case expenseDeletedMsg:
		return m.handleDeleted(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case StateList:
			return m.handleListKey(msg)
		case StateForm:
			return m.handleFormKey(msg)
		case StateLoading:
			return m, nil
		}
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		m.cursor--
		m.clamp()

	case key.Matches(msg, m.keymap.Down):
		m.cursor++
		m.clamp()

	case key.Matches(msg, m.keymap.PrevMonth):
		m.setPeriod(m.period.Previous())

	case key.Matches(msg, m.keymap.NextMonth):
		m.setPeriod(m.period.Next())

	case key.Matches(msg, m.keymap.PrevYear):
		m.setPeriod(model.Period{Month: m.period.Month, Year: m.period.Year - 1})

	case key.Matches(msg, m.keymap.NextYear):
		m.setPeriod(model.Period{Month: m.period.Month, Year: m.period.Year + 1})

	case key.Matches(msg, m.keymap.Toggle):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if r.kind == rowHeader {
			m.expanded[r.group.Category] = !m.expanded[r.group.Category]
			m.recompute()
			return m, nil
		}
		return m.openForm(form.NewEditForm(r.expense))

	case key.Matches(msg, m.keymap.Add):
		return m.openForm(form.NewAddForm(m.now()))

	case key.Matches(msg, m.keymap.Edit):
		if r, ok := m.selected(); ok && r.kind == rowExpense {
			return m.openForm(form.NewEditForm(r.expense))
		}
		m.status = "Select an expense to edit"

	case key.Matches(msg, m.keymap.Delete):
		if r, ok := m.selected(); ok && r.kind == rowExpense {
			return m, m.deleteExpense(form.NewEditForm(r.expense))
		}
		m.status = "Select an expense to delete"

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadExpenses()
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving || m.editor == nil {
		return m, nil
	}
	ed := m.editor
	onCategory := ed.focused() == form.FieldCategory
	lastField := ed.focus == len(form.Fields)-1

	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		ed.form.Cancel()
		m.closeForm()
		m.status = "Cancelled"
		return m, nil

	case key.Matches(msg, m.formKeys.Submit), msg.Type == tea.KeyEnter && lastField:
		return m.submit()

	case key.Matches(msg, m.formKeys.Delete):
		if ed.form.Mode() != form.ModeEdit {
			m.status = "Nothing to delete yet"
			return m, nil
		}
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.deleteExpense(ed.form))

	case onCategory && key.Matches(msg, m.formKeys.CycleLeft):
		ed.cycleCategory(-1)
		return m, nil

	case onCategory && key.Matches(msg, m.formKeys.CycleRight):
		ed.cycleCategory(1)
		return m, nil

	case key.Matches(msg, m.formKeys.Next):
		return m, ed.focusField(ed.focus + 1)

	case key.Matches(msg, m.formKeys.Prev):
		return m, ed.focusField(ed.focus - 1)
	}

	updated, cmd := ed.updateInput(msg)
	m.editor = &updated
	return m, cmd
}

func (m Model) openForm(f *form.Form) (tea.Model, tea.Cmd) {
	ed := newEditor(f)
	m.editor = &ed
	m.state = StateForm
	m.status = ""
	return m, ed.focusField(0)
}

func (m *Model) closeForm() {
	m.editor = nil
	m.saving = false
	m.state = StateList
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ed := m.editor
	ed.sync()

	if _, err := ed.form.Validate(); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			ed.errors = verr
		}
		m.status = "Please fix the highlighted fields"
		return m, nil
	}

	ed.errors = nil
	m.saving = true
	return m, tea.Batch(m.spinner.Tick, m.submitForm(ed.form))
}

func (m Model) handleSubmitted(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		var verr *form.ValidationError
		if m.editor != nil && errors.As(msg.err, &verr) {
			m.editor.errors = verr
		}
		m.setError("Failed to save expense", msg.err)
		return m, nil
	}

	m.closeForm()
	m.status = fmt.Sprintf("Expense %s", msg.mode)
	m.lastErr = nil
	return m, m.loadExpenses()
}

func (m Model) handleDeleted(msg expenseDeletedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.setError("Failed to delete expense", msg.err)
		return m, nil
	}

	if m.state == StateForm {
		m.closeForm()
	}
	m.status = "Expense deleted"
	m.lastErr = nil
	return m, m.loadExpenses()
}

func (m *Model) setError(prefix string, err error) {
	m.lastErr = err
	m.status = fmt.Sprintf("%s: %v", prefix, err)
}

// setPeriod switches the displayed month, staying within the selectable years.
func (m *Model) setPeriod(p model.Period) {
	if p.Year < report.FirstSelectableYear || p.Year > m.now().Year() {
		return
	}
	m.period = p
	m.cursor = 0
	m.offset = 0
	m.recompute()
}

// recompute rebuilds the aggregate and the visible rows from the loaded expenses.
func (m *Model) recompute() {
	m.agg = report.Summarize(m.expenses, m.period)

	rows := make([]row, 0, len(m.agg.Groups))
	for _, g := range m.agg.Groups {
		rows = append(rows, row{kind: rowHeader, group: g})
		if !m.expanded[g.Category] {
			continue
		}
		for _, e := range g.Expenses {
			rows = append(rows, row{kind: rowExpense, group: g, expense: e})
		}
	}
	m.rows = rows
	m.clamp()
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of rows that fit between the header and the footer.
func (m Model) listHeight() int {
	return max(m.height-8, 3)
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// Period returns the displayed month.
func (m Model) Period() model.Period { return m.period }

// State returns the current screen.
func (m Model) State() State { return m.state }

// Status returns the status line text.
func (m Model) Status() string { return m.status }
