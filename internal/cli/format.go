package cli

import (
	"math"
	"strings"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount as symbol plus two decimals, e.g. "$4.50".
func FormatAmount(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// FormatDate renders a calendar date, or a dash for undated records.
func FormatDate(e model.Expense) string {
	if !e.HasDate() {
		return "—"
	}
	return e.Date.Format(model.DateLayout)
}

// ShareBar renders share (0..1) as a bar of width cells.
func ShareBar(share float64, width int) string {
	if width <= 0 {
		return ""
	}
	if share < 0 || math.IsNaN(share) {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	filled := int(math.Round(share * float64(width)))
	return BarStyle.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", width-filled))
}
