package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements the ReportWriter interface for Google Sheets.
// Each period is written to its own tab, named like "March 2024".
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ service.ReportWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(srv, config, logger), nil
}

// NewWriterWithService wraps an already configured Sheets client.
func NewWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write implements the ReportWriter interface. The period's tab is
// created when missing and cleared before the report is written.
func (w *Writer) Write(ctx context.Context, report service.MonthlyExport) error {
	tab := report.Period.String()
	w.logger.Info("starting report export", "period", tab, "expenses", len(report.Rows))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get spreadsheet: %w", common.ErrExportFailed, err)
	}

	var sheetID int64
	err = w.retry(ctx, func() error {
		var tabErr error
		sheetID, tabErr = w.ensureTab(ctx, spreadsheetID, tab)
		return tabErr
	})
	if err != nil {
		return fmt.Errorf("%w: failed to prepare tab %q: %w", common.ErrExportFailed, tab, err)
	}

	if err := w.retry(ctx, func() error { return w.clearTab(ctx, spreadsheetID, tab) }); err != nil {
		return fmt.Errorf("%w: failed to clear tab %q: %w", common.ErrExportFailed, tab, err)
	}

	values := BuildRows(report)
	if err := w.retry(ctx, func() error { return w.writeData(ctx, spreadsheetID, tab, values) }); err != nil {
		return fmt.Errorf("%w: failed to write data: %w", common.ErrExportFailed, err)
	}

	if w.config.EnableFormatting {
		err := w.retry(ctx, func() error { return w.applyFormatting(ctx, spreadsheetID, sheetID, report) })
		if err != nil {
			// The data is already written
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"tab", tab,
		"rows_written", len(values))
	return nil
}

// retry runs a Sheets call under the configured backoff.
func (w *Writer) retry(ctx context.Context, call func() error) error {
	return common.WithRetry(ctx, func() error {
		return classifyAPIError(call())
	}, service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	})
}

// classifyAPIError marks Google API failures for WithRetry. Rate limits and
// server errors are retried; other client errors are not.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	case apiErr.Code >= http.StatusBadRequest:
		return common.Permanent(err)
	}
	return err
}

// tokenSource builds credentials for the configured authentication method.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	switch config.Auth() {
	case AuthServiceAccount:
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	case AuthOAuth:
		client := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauthConfig()
		return client.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}), nil
	default:
		return nil, fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// spreadsheet returns the configured spreadsheet, creating one on first use
// and remembering its id for the rest of the run.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet; set sheets.spreadsheet_id to reuse it",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// findTab returns the sheet id of the named tab.
func findTab(spreadsheet *sheets.Spreadsheet, title string) (int64, bool) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true
		}
	}
	return 0, false
}

// ensureTab returns the sheet id of the named tab, adding the tab when missing.
func (w *Writer) ensureTab(ctx context.Context, spreadsheetID, title string) (int64, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}
	if id, ok := findTab(spreadsheet, title); ok {
		return id, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to add tab %q: %w", title, err)
	}

	w.logger.Debug("added tab", "tab", title)
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			return reply.AddSheet.Properties.SheetId, nil
		}
	}
	return 0, nil
}

func tabRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", tab, cells)
}

// clearTab clears all data from the tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tabRange(tab, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData sends the rows in chunks of BatchSize, each chunk one range of
// a single values batch update.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	ranges := make([]*sheets.ValueRange, 0, len(values)/w.config.BatchSize+1)
	for start := 0; start < len(values); start += w.config.BatchSize {
		end := min(start+w.config.BatchSize, len(values))
		ranges = append(ranges, &sheets.ValueRange{
			Range:  tabRange(tab, fmt.Sprintf("A%d", start+1)),
			Values: values[start:end],
		})
	}

	resp, err := w.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             ranges,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write %d rows: %w", len(values), err)
	}

	w.logger.Debug("wrote rows", "ranges", len(ranges), "updated_cells", resp.TotalUpdatedCells)
	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, report service.MonthlyExport) error {
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formatRequests(sheetID, report),
	}).Context(ctx).Do()
	return err
}
