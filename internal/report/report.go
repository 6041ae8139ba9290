// Package report derives the monthly view model from stored expenses.
// Everything here is a pure function of its inputs and is recomputed on
// every refresh.
package report

import (
	"maps"
	"slices"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/shopspring/decimal"
)

// FirstSelectableYear is the earliest year offered by the period pickers.
const FirstSelectableYear = 2022

// Group is the set of expenses sharing one category label.
type Group struct {
	Category string
	Expenses []model.Expense
	Total    decimal.Decimal
	Share    float64 // Fraction of the aggregate total, 0 when the total is zero
}

// MonthlyAggregate is the per-category breakdown of one period.
type MonthlyAggregate struct {
	Period model.Period
	Groups []Group // Lexicographic by category
	Total  decimal.Decimal
	Count  int
}

// FilterByPeriod returns the expenses dated within period, preserving order.
// Expenses without a date are never included.
func FilterByPeriod(records []model.Expense, period model.Period) []model.Expense {
	filtered := make([]model.Expense, 0, len(records))
	for _, e := range records {
		if period.Contains(e.Date) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// GroupByCategory partitions records by category label.
// Blank categories are grouped under model.CategoryUnknown.
func GroupByCategory(records []model.Expense) map[string][]model.Expense {
	groups := make(map[string][]model.Expense)
	for _, e := range records {
		label := e.CategoryLabel()
		groups[label] = append(groups[label], e)
	}
	return groups
}

// Sum adds up the amounts of records.
func Sum(records []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// Summarize filters records to period and aggregates them by category.
func Summarize(records []model.Expense, period model.Period) MonthlyAggregate {
	agg := Aggregate(FilterByPeriod(records, period))
	agg.Period = period
	return agg
}

// Aggregate groups records by category without filtering them.
// The returned aggregate has a zero Period.
func Aggregate(records []model.Expense) MonthlyAggregate {
	grouped := GroupByCategory(records)

	agg := MonthlyAggregate{
		Total:  Sum(records),
		Count:  len(records),
		Groups: make([]Group, 0, len(grouped)),
	}

	for _, category := range slices.Sorted(maps.Keys(grouped)) {
		expenses := grouped[category]
		group := Group{
			Category: category,
			Expenses: expenses,
			Total:    Sum(expenses),
		}
		if !agg.Total.IsZero() {
			group.Share = group.Total.Div(agg.Total).InexactFloat64()
		}
		agg.Groups = append(agg.Groups, group)
	}

	return agg
}

// Group returns the group for category, if present.
func (a MonthlyAggregate) Group(category string) (Group, bool) {
	for _, g := range a.Groups {
		if g.Category == category {
			return g, true
		}
	}
	return Group{}, false
}

// IsEmpty reports whether the period has no expenses.
func (a MonthlyAggregate) IsEmpty() bool {
	return a.Count == 0
}

// SelectableYears lists the years offered by the period pickers, oldest first.
func SelectableYears(now time.Time) []int {
	last := now.Year()
	if last < FirstSelectableYear {
		last = FirstSelectableYear
	}
	years := make([]int, 0, last-FirstSelectableYear+1)
	for y := FirstSelectableYear; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
