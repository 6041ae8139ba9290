package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/Veraticus/budjet/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// now is the clock used for default periods and dates.
var now = time.Now

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, v *viper.Viper) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(v)

	store, err := storage.NewSQLiteStorage(dbPath, storage.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// addPeriodFlags registers --month and --year on cmd.
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("month", "m", 0, "month to show, 1-12 (default: current month)")
	cmd.Flags().IntP("year", "y", 0, "year to show (default: current year)")
}

// periodFromFlags resolves --month and --year against the current date.
// Years before the first selectable year or after the current one are rejected.
func periodFromFlags(cmd *cobra.Command) (model.Period, error) {
	current := model.CurrentPeriod(now())

	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	if month == 0 {
		month = int(current.Month)
	}
	if year == 0 {
		year = current.Year
	}

	period, err := model.NewPeriod(month, year)
	if err != nil {
		return model.Period{}, common.NewUserError(err.Error(), common.ErrValidationFailed)
	}

	years := report.SelectableYears(now())
	if year < years[0] || year > years[len(years)-1] {
		return model.Period{}, common.NewUserError(
			fmt.Sprintf("year must be between %d and %d", years[0], years[len(years)-1]),
			common.ErrValidationFailed)
	}

	return period, nil
}
