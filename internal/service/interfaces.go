// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/shopspring/decimal"
)

// ExpenseStore defines the contract for our persistence layer.
// Every mutation is committed before the call returns.
type ExpenseStore interface {
	// Record operations
	Create(ctx context.Context, draft model.Expense) (model.Expense, error)
	Update(ctx context.Context, id string, update model.ExpenseUpdate) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Expense, error)
	ListAll(ctx context.Context) ([]model.Expense, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ExportRow is a single expense line in an exported report.
type ExportRow struct {
	Date     time.Time
	Title    string
	Category string
	Note     string
	Amount   decimal.Decimal
}

// ExportGroup is one category block in an exported report.
type ExportGroup struct {
	Category string
	Total    decimal.Decimal
	Share    float64
	Count    int
}

// MonthlyExport is the report handed to a ReportWriter.
type MonthlyExport struct {
	Period         model.Period
	CurrencySymbol string
	Total          decimal.Decimal
	Groups         []ExportGroup
	Rows           []ExportRow
}

// ReportWriter publishes a monthly report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report MonthlyExport) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// WithDefaults fills zero fields with sensible values.
func (o RetryOptions) WithDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 1 {
		o.Multiplier = 2.0
	}
	return o
}
