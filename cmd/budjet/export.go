package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/Veraticus/budjet/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a monthly report to Google Sheets",
		Long: `Write one month's category breakdown and expenses to a Google Sheets tab
named after the month. Running it again replaces the tab's contents.

Authenticate first with "budjet auth sheets", or set
sheets.service_account_path in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			sheetsCfg, err := config.LoadSheetsConfig(v)
			if err != nil {
				return common.NewUserError("Google Sheets is not configured; run `budjet auth sheets` first", err)
			}

			store, err := initStorage(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			agg := report.Summarize(records, period)
			if agg.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("No expenses recorded for %s; exporting an empty report", period)))
			}

			writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}

			if err := writer.Write(ctx, report.ToExport(agg, config.CurrencySymbol(v))); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %s (%d expenses)", period, agg.Count)))
			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}
