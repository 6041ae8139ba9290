package main

import (
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/tui"
	"github.com/Veraticus/budjet/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func uiCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit expenses interactively",
		Long: `Open the interactive expense browser.

Categories are listed with their monthly totals; press Enter to expand one,
a to add an expense, e to edit and d to delete the selected expense, and
←/→ to move between months. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Run(ctx,
				tui.WithStore(store),
				tui.WithClock(now),
				tui.WithCurrencySymbol(config.CurrencySymbol(v)),
				tui.WithTheme(themes.GetTheme(v.GetString(config.KeyTheme))),
			)
		},
	}
}
