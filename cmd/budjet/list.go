package main

import (
	"fmt"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func listCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses grouped by category",
		Long: `List the expenses of one month grouped by category, with per-category
and overall totals. Without --month and --year the current month is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			all, _ := cmd.Flags().GetBool("all")
			showIDs, _ := cmd.Flags().GetBool("ids")

			var period model.Period
			if !all {
				var err error
				if period, err = periodFromFlags(cmd); err != nil {
					return err
				}
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

			title := "All expenses"
			agg := report.Aggregate(records)
			if !all {
				title = period.String()
				agg = report.Summarize(records, period)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(title))
			fmt.Fprint(out, cli.RenderList(agg, cli.ListOptions{
				Symbol:  config.CurrencySymbol(v),
				ShowIDs: showIDs,
			}))
			return nil
		},
	}

	addPeriodFlags(cmd)
	cmd.Flags().Bool("all", false, "list every expense regardless of date")
	cmd.Flags().Bool("ids", false, "show expense ids (needed for edit and delete)")
	return cmd
}

func summaryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show where the money went in a month",
		Long: `Show the total spent in a month and each category's share of it.
Without --month and --year the current month is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
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

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderSummary(report.Summarize(records, period), config.CurrencySymbol(v)))
			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		Long:  `List the categories accepted by add and edit, in picker order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Categories"))
			for _, c := range model.Categories {
				line := "  " + c.String()
				if c == model.DefaultCategory {
					line += cli.SubtleStyle.Render("  (default for imports and blank categories)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
