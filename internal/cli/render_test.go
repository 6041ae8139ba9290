package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleAggregate() report.MonthlyAggregate {
	return report.Summarize([]model.Expense{
		{ID: "e1", Title: "Coffee", Amount: decimal.RequireFromString("4.50"), Category: "Food", Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), Note: "oat"},
		{ID: "e2", Title: "Rent", Amount: decimal.RequireFromString("1200.00"), Category: "Bills", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{ID: "e3", Amount: decimal.RequireFromString("2"), Category: "", Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local)},
	}, model.Period{Month: time.March, Year: 2024})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$4.50", FormatAmount("$", decimal.RequireFromString("4.5")))
	assert.Equal(t, "€1204.50", FormatAmount("€", decimal.RequireFromString("1204.5")))
	assert.Equal(t, "-$5.00", FormatAmount("$", decimal.NewFromInt(-5)))
	assert.Equal(t, "$0.13", FormatAmount("$", decimal.RequireFromString("0.125")))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", FormatDate(model.Expense{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)}))
	assert.Equal(t, "—", FormatDate(model.Expense{}))
}

func TestShareBar(t *testing.T) {
	assert.Equal(t, 10, strings.Count(ShareBar(1, 10), "█"))
	assert.Equal(t, 5, strings.Count(ShareBar(0.5, 10), "█"))
	assert.Equal(t, 0, strings.Count(ShareBar(-0.2, 10), "█"))
	assert.Equal(t, 10, strings.Count(ShareBar(3, 10), "█"))
	assert.Empty(t, ShareBar(0.5, 0))
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleAggregate(), "$")

	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "Total $1206.50")
	assert.Contains(t, out, "Bills")
	assert.Contains(t, out, "$1200.00")
	assert.Contains(t, out, "Unknown")
	assert.Less(t, strings.Index(out, "Bills"), strings.Index(out, "Food"))
}

func TestRenderSummary_Empty(t *testing.T) {
	out := RenderSummary(report.Summarize(nil, model.Period{Month: time.May, Year: 2023}), "$")

	assert.Contains(t, out, "May 2023")
	assert.Contains(t, out, "No expenses recorded")
}

func TestRenderList(t *testing.T) {
	out := RenderList(sampleAggregate(), ListOptions{Symbol: "$", ShowIDs: true})

	assert.Contains(t, out, "Food (1)")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "oat")
	assert.Contains(t, out, "e1")
	assert.Contains(t, out, "Other", "untitled expenses show the fallback title")
	assert.Contains(t, out, "$1206.50")

	hidden := RenderList(sampleAggregate(), ListOptions{Symbol: "$"})
	assert.NotContains(t, hidden, "e2")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestMessageFormatting(t *testing.T) {
	assert.Contains(t, FormatSuccess("Saved"), "✓ Saved")
	assert.Contains(t, FormatWarning("Careful"), "Careful")
	assert.Contains(t, FormatInfo("2 files"), "2 files")
	assert.Contains(t, FormatTitle("March 2024"), "💸 March 2024")
}
