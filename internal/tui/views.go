package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/form"
	"github.com/Veraticus/budjet/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

var fieldLabels = map[form.Field]string{
	form.FieldTitle:    "Title",
	form.FieldAmount:   "Amount",
	form.FieldCategory: "Category",
	form.FieldDate:     "Date",
	form.FieldNote:     "Note",
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLoading:
		return m.renderLoading()
	case StateForm:
		return m.renderForm()
	default:
		return m.renderList()
	}
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		m.spinner.View(),
		" ",
		m.theme.Subtitle.Render("Loading expenses..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.WalletIcon + " Budjet")
	period := m.theme.Header.Render(fmt.Sprintf("◀ %s ▶", m.period))
	total := m.theme.Amount.Render("Total " + cli.FormatAmount(m.symbol, m.agg.Total))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", period, "   ", total)
}

func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("No expenses for %s. Press a to add one.", m.period)))
		b.WriteString("\n")
	}

	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keymap))
	}

	return b.String()
}

func (m Model) renderRow(r row) string {
	if r.kind == rowHeader {
		marker := "▸"
		if m.expanded[r.group.Category] {
			marker = "▾"
		}
		name := fmt.Sprintf("%s %s %s (%d)", marker, themes.GetCategoryIcon(r.group.Category), r.group.Category, len(r.group.Expenses))
		return fmt.Sprintf("%-32s %12s %6.1f%%", name, cli.FormatAmount(m.symbol, r.group.Total), r.group.Share*100)
	}

	return fmt.Sprintf("    %-10s  %-24s %12s",
		cli.FormatDate(r.expense),
		truncate(r.expense.DisplayTitle(), 24),
		cli.FormatAmount(m.symbol, r.expense.Amount))
}

func (m Model) renderStatus() string {
	switch {
	case m.saving:
		return m.spinner.View() + " " + m.theme.StatusInfo.Render("Saving...")
	case m.lastErr != nil:
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + m.status)
	case m.status != "":
		return m.theme.StatusSuccess.Render(m.status)
	}
	return ""
}

func (m Model) renderForm() string {
	ed := m.editor
	if ed == nil {
		return ""
	}

	heading := "Add expense"
	if ed.form.Mode() == form.ModeEdit {
		heading = "Edit expense"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(heading))
	b.WriteString("\n\n")

	for i, field := range form.Fields {
		label := fmt.Sprintf("%-9s", fieldLabels[field])
		if i == ed.focus {
			b.WriteString(m.theme.FocusedField.Render("> " + label))
		} else {
			b.WriteString(m.theme.BlurredField.Render("  " + label))
		}
		b.WriteString(" ")

		if field == form.FieldCategory {
			c := ed.categoryLabel()
			b.WriteString(fmt.Sprintf("◀ %s %s ▶", themes.GetCategoryIcon(c), c))
		} else {
			b.WriteString(ed.inputs[field].View())
		}
		b.WriteString("\n")

		if msg := ed.fieldError(field); msg != "" {
			b.WriteString(m.theme.StatusError.Render("            " + msg))
			b.WriteString("\n")
		}
	}

	content := m.theme.RoundedBox.Render(b.String())

	var out strings.Builder
	out.WriteString(content)
	out.WriteString("\n")
	out.WriteString(m.renderStatus())
	if m.showHelp {
		out.WriteString("\n")
		out.WriteString(m.help.View(m.formKeys))
	}
	return out.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
