package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/ofx"
	"github.com/Veraticus/budjet/internal/report"
	"github.com/Veraticus/budjet/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const (
	// importBatchSize is the number of expenses stored per transaction.
	importBatchSize   = 50
	maxParallelParses = 4
)

func importCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from OFX/QFX bank statements",
		Long: `Import debits from OFX or QFX files exported from your bank.

Every debit becomes an expense titled after the payee, with the memo as its
note. Categories are guessed from the payee name and fall back to Other.
Credits are skipped, as are debits already recorded with the same date,
title and amount.

Examples:
  # Import a single file
  budjet import ~/Downloads/checking_march.qfx

  # Preview several files without saving
  budjet import --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runImport(cmd, v, args, dryRun)
		},
	}

	cmd.Flags().Bool("dry-run", false, "preview the import without saving")
	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) (ofx.Result, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided statement path
	if err != nil {
		return ofx.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	result, err := parser.ParseFile(ctx, f)
	if err != nil {
		return ofx.Result{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	slog.Debug("Parsed statement",
		"file", path,
		"accounts", result.Accounts,
		"expenses", len(result.Entries),
		"credits", result.Credits)
	return result, nil
}

// parseFiles parses the statements concurrently and returns their entries
// in file order. The first failure cancels the rest.
func parseFiles(ctx context.Context, parser *ofx.Parser, files []string) ([]ofx.Entry, int, error) {
	results := make([]ofx.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for i, path := range files {
		g.Go(func() error {
			result, err := parseFile(gctx, parser, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var entries []ofx.Entry
	credits := 0
	for _, result := range results {
		entries = append(entries, result.Entries...)
		credits += result.Credits
	}
	return entries, credits, nil
}

func runImport(cmd *cobra.Command, v *viper.Viper, args []string, dryRun bool) error {
	out := cmd.OutOrStdout()
	symbol := config.CurrencySymbol(v)

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no statement files found")
	}

	store, err := initStorage(cmd.Context(), v)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, credits, err := parseFiles(cmd.Context(), ofx.NewParser(), files)
	if err != nil {
		return err
	}

	existing, err := store.ListAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load existing expenses: %w", err)
	}
	fresh, duplicates := ofx.Deduplicate(entries, existing)

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d files: %d new expenses, %d already recorded, %d credits skipped",
		len(files), len(fresh), duplicates, credits)))

	drafts := make([]model.Expense, len(fresh))
	for i, entry := range fresh {
		drafts[i] = entry.Draft
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatWarning("Dry run - nothing was saved"))
		fmt.Fprint(out, cli.RenderList(report.Aggregate(drafts), cli.ListOptions{Symbol: symbol}))
		return nil
	}

	if len(drafts) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess("Nothing new to import"))
		return nil
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
	ctx, stop := handler.Watch(cmd.Context())
	defer stop()

	stored, err := storeDrafts(ctx, store, drafts, cmd.ErrOrStderr())
	if handler.WasInterrupted() {
		return fmt.Errorf("import stopped after %d of %d expenses: %w", stored, len(drafts), context.Cause(ctx))
	}
	if err != nil {
		return fmt.Errorf("import stopped after %d of %d expenses: %w", stored, len(drafts), err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", stored)))
	return nil
}

// storeDrafts writes drafts in batches, stopping between batches when ctx is cancelled.
func storeDrafts(ctx context.Context, store *storage.SQLiteStorage, drafts []model.Expense, w io.Writer) (int, error) {
	bar := progressbar.NewOptions(len(drafts),
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing expenses...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)

	stored := 0
	for start := 0; start < len(drafts); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		end := min(start+importBatchSize, len(drafts))
		created, err := store.CreateBatch(ctx, drafts[start:end])
		if err != nil {
			return stored, err
		}
		stored += len(created)

		if err := bar.Add(len(created)); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	return stored, nil
}
