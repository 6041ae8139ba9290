package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/form"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fieldFlags = map[form.Field]string{
	form.FieldTitle:    "title",
	form.FieldAmount:   "amount",
	form.FieldCategory: "category",
	form.FieldDate:     "date",
	form.FieldNote:     "note",
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "what the money was spent on")
	cmd.Flags().StringP("amount", "a", "", "amount spent, e.g. 4.50")
	cmd.Flags().StringP("category", "c", "", "category (see `budjet categories`)")
	cmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("note", "n", "", "free-form note")
}

// applyFieldFlags copies every flag the user set into f and reports how many there were.
func applyFieldFlags(cmd *cobra.Command, f *form.Form) int {
	changed := 0
	for _, field := range form.Fields {
		name := fieldFlags[field]
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		f.Set(field, value)
		changed++
	}
	return changed
}

func describeValidation(err error) error {
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msg := "invalid expense"
	for _, fe := range verr.Errors {
		msg += fmt.Sprintf("\n  --%s: %s", fieldFlags[fe.Field], fe.Message)
	}
	return common.NewUserError(msg, err)
}

// categoryLabel returns the canonical spelling of a category the form accepted.
func categoryLabel(value string) string {
	if c, err := model.ParseCategory(value); err == nil {
		return string(c)
	}
	return value
}

func addCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Long: `Record a new expense.

The title and amount are required. The category defaults to Food and the
date to today.

Examples:
  budjet add --title Coffee --amount 4.50
  budjet add -t Rent -a 1200 -c Bills -d 2024-03-01 -n "March rent"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			f := form.NewAddForm(now())
			applyFieldFlags(cmd, f)

			if err := f.Submit(ctx, store); err != nil {
				return describeValidation(err)
			}

			// Submit succeeded, so the amount parses
			amount := decimal.RequireFromString(strings.TrimSpace(f.Value(form.FieldAmount)))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s (%s, %s)",
				strings.TrimSpace(f.Value(form.FieldTitle)),
				cli.FormatAmount(config.CurrencySymbol(v), amount),
				categoryLabel(f.Value(form.FieldCategory)))))
			return nil
		},
	}

	addFieldFlags(cmd)
	return cmd
}

func editCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing expense",
		Long: `Change fields of an existing expense.

Only the fields given as flags change; the others keep their stored values.
Use "budjet list --ids" to find expense ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.Get(ctx, args[0])
			if err != nil {
				return common.NewUserError(common.UserMessage(err), err)
			}

			f := form.NewEditForm(existing)
			if applyFieldFlags(cmd, f) == 0 {
				return common.NewUserError("nothing to change: pass at least one of --title, --amount, --category, --date, --note", common.ErrValidationFailed)
			}

			if err := f.Submit(ctx, store); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(common.UserMessage(err), err)
				}
				return describeValidation(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+f.Value(form.FieldTitle)))
			return nil
		},
	}

	addFieldFlags(cmd)
	return cmd
}

func deleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.Get(ctx, args[0])
			if err != nil {
				return common.NewUserError(common.UserMessage(err), err)
			}

			if err := form.NewEditForm(existing).Delete(ctx, store); err != nil {
				return common.NewUserError(common.UserMessage(err), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+existing.DisplayTitle()))
			return nil
		},
	}
}
