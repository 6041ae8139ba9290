package sheets

import (
	"fmt"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/service"
	"google.golang.org/api/sheets/v4"
)

// Fixed rows of the report layout, zero based.
const (
	titleRow       = 0
	totalRow       = 2
	groupHeaderRow = 5
	amountColumn   = 2
	reportColumns  = 5
)

// expenseHeaderRow is the row of the expense table header, which follows
// the category table and one blank row.
func expenseHeaderRow(report service.MonthlyExport) int {
	return groupHeaderRow + len(report.Groups) + 2
}

// BuildRows lays out a report as spreadsheet rows: a title, the category
// breakdown with shares, then every expense.
func BuildRows(report service.MonthlyExport) [][]any {
	values := make([][]any, 0, expenseHeaderRow(report)+1+len(report.Rows))

	values = append(values,
		[]any{"Expense Report", report.Period.String()},
		[]any{},
		[]any{"Total", report.Total.InexactFloat64()},
		[]any{"Expenses", len(report.Rows)},
		[]any{},
		[]any{"Category", "Count", "Amount", "Share"},
	)
	for _, g := range report.Groups {
		values = append(values, []any{g.Category, g.Count, g.Total.InexactFloat64(), fmt.Sprintf("%.1f%%", g.Share*100)})
	}

	values = append(values, []any{}, []any{"Date", "Title", "Amount", "Category", "Note"})
	for _, row := range report.Rows {
		date := ""
		if !row.Date.IsZero() {
			date = row.Date.Format(model.DateLayout)
		}
		values = append(values, []any{date, row.Title, row.Amount.InexactFloat64(), row.Category, row.Note})
	}

	return values
}

func rowRange(sheetID int64, from, to, fromCol, toCol int) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(from),
		EndRowIndex:      int64(to),
		StartColumnIndex: int64(fromCol),
		EndColumnIndex:   int64(toCol),
		// Zero indexes are meaningful here
		ForceSendFields: []string{"StartRowIndex", "StartColumnIndex"},
	}
}

func textFormat(r *sheets.GridRange, format *sheets.TextFormat) *sheets.Request {
	return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range:  r,
		Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: format}},
		Fields: "userEnteredFormat.textFormat",
	}}
}

// formatRequests styles a report written by BuildRows: a large title, bold
// table headers and currency amounts.
func formatRequests(sheetID int64, report service.MonthlyExport) []*sheets.Request {
	symbol := report.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}
	lastRow := expenseHeaderRow(report) + 1 + len(report.Rows)

	requests := []*sheets.Request{
		textFormat(rowRange(sheetID, titleRow, titleRow+1, 0, 2), &sheets.TextFormat{Bold: true, FontSize: 16}),
		textFormat(rowRange(sheetID, groupHeaderRow, groupHeaderRow+1, 0, 4), &sheets.TextFormat{Bold: true}),
		textFormat(rowRange(sheetID, expenseHeaderRow(report), expenseHeaderRow(report)+1, 0, reportColumns), &sheets.TextFormat{Bold: true}),
		{RepeatCell: &sheets.RepeatCellRequest{
			Range: rowRange(sheetID, totalRow, lastRow, amountColumn, amountColumn+1),
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: fmt.Sprintf(`"%s"#,##0.00`, symbol)},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}},
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{SheetId: sheetID, Dimension: "COLUMNS", StartIndex: 0, EndIndex: reportColumns},
		}},
	}

	// The total sits in column B, left of the amount column
	requests = append(requests, &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range: rowRange(sheetID, totalRow, totalRow+1, 1, 2),
		Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
			NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: fmt.Sprintf(`"%s"#,##0.00`, symbol)},
		}},
		Fields: "userEnteredFormat.numberFormat",
	}})

	return requests
}
