package report

import (
	"testing"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(id, title, amount, category string, date time.Time) model.Expense {
	return model.Expense{
		ID:       id,
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

var march2024 = model.Period{Month: time.March, Year: 2024}

func fixture() []model.Expense {
	return []model.Expense{
		expense("1", "Rent", "1200.00", "Bills", day(2024, 3, 1)),
		expense("2", "Coffee", "4.50", "Food", day(2024, 3, 5)),
		expense("3", "Feb groceries", "80", "Groceries", day(2024, 2, 28)),
		expense("4", "Mystery", "10", "", day(2024, 3, 9)),
		expense("5", "Last year", "7", "Food", day(2023, 3, 5)),
		expense("6", "Undated", "3", "Food", time.Time{}),
		expense("7", "Bagel", "2.25", "Food", day(2024, 3, 30)),
	}
}

func TestFilterByPeriod(t *testing.T) {
	records := fixture()
	before := make([]model.Expense, len(records))
	copy(before, records)

	filtered := FilterByPeriod(records, march2024)

	ids := make([]string, len(filtered))
	for i, e := range filtered {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"1", "2", "4", "7"}, ids, "keeps input order and drops other months and undated rows")
	assert.Equal(t, before, records, "input must not be mutated")

	for _, e := range filtered {
		assert.Equal(t, time.March, e.Date.Month())
		assert.Equal(t, 2024, e.Date.Year())
	}
}

func TestFilterByPeriod_Empty(t *testing.T) {
	assert.Empty(t, FilterByPeriod(nil, march2024))
}

func TestGroupByCategory_Partition(t *testing.T) {
	records := fixture()
	groups := GroupByCategory(records)

	count := 0
	sum := decimal.Zero
	for category, members := range groups {
		assert.NotEmpty(t, members, "only present categories appear")
		for _, e := range members {
			assert.Equal(t, category, e.CategoryLabel())
		}
		count += len(members)
		sum = sum.Add(Sum(members))
	}

	assert.Equal(t, len(records), count)
	assert.True(t, Sum(records).Equal(sum), "group sums %s must equal overall %s", sum, Sum(records))
	assert.Contains(t, groups, model.CategoryUnknown)
	assert.NotContains(t, groups, "Shopping")
}

func TestSum(t *testing.T) {
	assert.True(t, Sum(nil).IsZero())
	assert.Equal(t, "0.3", Sum([]model.Expense{
		expense("a", "", "0.1", "Food", day(2024, 1, 1)),
		expense("b", "", "0.2", "Food", day(2024, 1, 1)),
	}).String())
}

func TestSummarize_CoffeeAndRent(t *testing.T) {
	records := []model.Expense{
		expense("1", "Coffee", "4.50", "Food", day(2024, 3, 5)),
		expense("2", "Rent", "1200.00", "Bills", day(2024, 3, 1)),
	}

	agg := Summarize(records, march2024)

	require.Len(t, agg.Groups, 2)
	assert.Equal(t, "Bills", agg.Groups[0].Category)
	assert.Equal(t, "Food", agg.Groups[1].Category)
	assert.True(t, decimal.RequireFromString("1200.00").Equal(agg.Groups[0].Total))
	assert.True(t, decimal.RequireFromString("4.50").Equal(agg.Groups[1].Total))
	assert.True(t, decimal.RequireFromString("1204.50").Equal(agg.Total))
	assert.Equal(t, 2, agg.Count)
	assert.InDelta(t, 1.0, agg.Groups[0].Share+agg.Groups[1].Share, 1e-9)

	food, ok := agg.Group("Food")
	require.True(t, ok)
	assert.Len(t, food.Expenses, 1)
	_, ok = agg.Group("Shopping")
	assert.False(t, ok)
}

func TestSummarize_EmptyPeriod(t *testing.T) {
	agg := Summarize(fixture(), model.Period{Month: time.July, Year: 2022})

	assert.True(t, agg.IsEmpty())
	assert.Empty(t, agg.Groups)
	assert.True(t, agg.Total.IsZero())
}

func TestSummarize_ZeroTotalHasNoShares(t *testing.T) {
	agg := Summarize([]model.Expense{
		expense("1", "Refund", "-5", "Food", day(2024, 3, 2)),
		expense("2", "Lunch", "5", "Food", day(2024, 3, 3)),
	}, march2024)

	require.Len(t, agg.Groups, 1)
	assert.Zero(t, agg.Groups[0].Share)
}

func TestSummarize_GroupsAreLexicographic(t *testing.T) {
	agg := Summarize(fixture(), march2024)

	names := make([]string, len(agg.Groups))
	for i, g := range agg.Groups {
		names[i] = g.Category
	}
	assert.Equal(t, []string{"Bills", "Food", "Unknown"}, names)
	assert.True(t, decimal.RequireFromString("1216.75").Equal(agg.Total))
}

func TestSelectableYears(t *testing.T) {
	assert.Equal(t, []int{2022, 2023, 2024}, SelectableYears(day(2024, 6, 1)))
	assert.Equal(t, []int{2022}, SelectableYears(day(2021, 6, 1)))
}

func TestToExport(t *testing.T) {
	agg := Summarize(fixture(), march2024)
	out := ToExport(agg, "€")

	assert.Equal(t, "€", out.CurrencySymbol)
	assert.Equal(t, march2024, out.Period)
	require.Len(t, out.Groups, 3)
	assert.Len(t, out.Rows, agg.Count)
	assert.Equal(t, "Bills", out.Rows[0].Category)
	assert.Equal(t, model.CategoryUnknown, out.Rows[len(out.Rows)-1].Category)
}

func TestAggregate_AllRecords(t *testing.T) {
	agg := Aggregate(fixture())

	assert.Equal(t, 7, agg.Count)
	assert.Equal(t, model.Period{}, agg.Period)
	assert.True(t, decimal.RequireFromString("1306.75").Equal(agg.Total))
	_, ok := agg.Group("Groceries")
	assert.True(t, ok)
}
