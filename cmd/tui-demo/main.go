// Package main runs the expense browser against an in-memory store filled with sample data.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/testutil"
	"github.com/Veraticus/budjet/internal/tui"
	"github.com/Veraticus/budjet/internal/tui/themes"
	"github.com/shopspring/decimal"
)

type sample struct {
	title    string
	category model.Category
	maxCents int64
}

var samples = []sample{
	{"Whole Foods Market", model.CategoryGroceries, 18000},
	{"Amazon.com", model.CategoryShopping, 9000},
	{"Shell Oil", model.CategoryNeeds, 7000},
	{"Netflix", model.CategoryEntertainment, 1600},
	{"Starbucks", model.CategoryFood, 900},
	{"Target", model.CategoryHousehold, 12000},
	{"Uber", model.CategoryNeeds, 4500},
	{"Chipotle", model.CategoryFood, 2500},
	{"CVS Pharmacy", model.CategoryNeeds, 6000},
	{"Electric bill", model.CategoryBills, 15000},
}

// seedExpenses spreads count expenses over the last three months.
func seedExpenses(now time.Time, count int) []model.Expense {
	rng := rand.New(rand.NewPCG(42, uint64(count)))
	expenses := make([]model.Expense, 0, count)
	for range count {
		s := samples[rng.IntN(len(samples))]
		expenses = append(expenses, model.Expense{
			Title:    s.title,
			Amount:   decimal.New(100+rng.Int64N(s.maxCents), -2),
			Category: string(s.category),
			Date:     model.CalendarDate(now.AddDate(0, 0, -rng.IntN(90))),
		})
	}
	return expenses
}

func main() {
	theme := "default"
	if len(os.Args) > 1 {
		theme = os.Args[1]
	}

	store := testutil.NewMockStore(seedExpenses(time.Now(), 100)...)

	err := tui.Run(context.Background(),
		tui.WithStore(store),
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithSize(120, 40),
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
