package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/budjet/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const (
	categoryWidth = 15
	amountWidth   = 12
	titleWidth    = 24
	barWidth      = 24
)

// RenderSummary renders the per-category breakdown of an aggregate with
// proportional share bars and the grand total centred in the header.
func RenderSummary(agg report.MonthlyAggregate, symbol string) string {
	var b strings.Builder

	b.WriteString(FormatTitle(agg.Period.String()))
	b.WriteString("\n")

	if agg.IsEmpty() {
		b.WriteString(SubtleStyle.Render("No expenses recorded for this month."))
		b.WriteString("\n")
		return b.String()
	}

	lineWidth := categoryWidth + amountWidth + 8 + barWidth
	total := "Total " + AmountStyle.Render(FormatAmount(symbol, agg.Total))
	b.WriteString(lipgloss.PlaceHorizontal(lineWidth, lipgloss.Center, total))
	b.WriteString("\n\n")

	for _, g := range agg.Groups {
		b.WriteString(lipgloss.NewStyle().Width(categoryWidth).Render(g.Category))
		b.WriteString(lipgloss.NewStyle().Width(amountWidth).Align(lipgloss.Right).Render(FormatAmount(symbol, g.Total)))
		b.WriteString(fmt.Sprintf(" %6.1f%% ", g.Share*100))
		b.WriteString(ShareBar(g.Share, barWidth))
		b.WriteString("\n")
	}

	return b.String()
}

// ListOptions controls RenderList.
type ListOptions struct {
	Symbol  string
	ShowIDs bool
}

// RenderList renders expenses grouped by category with group totals.
func RenderList(agg report.MonthlyAggregate, opts ListOptions) string {
	var b strings.Builder

	if agg.IsEmpty() {
		b.WriteString(SubtleStyle.Render("No expenses."))
		b.WriteString("\n")
		return b.String()
	}

	for _, g := range agg.Groups {
		header := fmt.Sprintf("%s (%d)", g.Category, len(g.Expenses))
		b.WriteString(BoldStyle.Render(lipgloss.NewStyle().Width(categoryWidth + titleWidth).Render(header)))
		b.WriteString(AmountStyle.Render(FormatAmount(opts.Symbol, g.Total)))
		b.WriteString("\n")

		for _, e := range g.Expenses {
			b.WriteString("  ")
			b.WriteString(lipgloss.NewStyle().Width(categoryWidth - 2).Render(FormatDate(e)))
			b.WriteString(lipgloss.NewStyle().Width(titleWidth).Render(truncate(e.DisplayTitle(), titleWidth-1)))
			b.WriteString(FormatAmount(opts.Symbol, e.Amount))
			if opts.ShowIDs {
				b.WriteString("  ")
				b.WriteString(SubtleStyle.Render(e.ID))
			}
			if e.Note != "" {
				b.WriteString("  ")
				b.WriteString(SubtleStyle.Render(truncate(e.Note, 40)))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(lipgloss.NewStyle().Width(categoryWidth + titleWidth).Render("Total")))
	b.WriteString(AmountStyle.Render(FormatAmount(opts.Symbol, agg.Total)))
	b.WriteString("\n")

	return b.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
