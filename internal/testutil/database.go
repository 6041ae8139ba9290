// Package testutil provides shared test helpers for budjet packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB wraps a migrated in-memory store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T, opts ...storage.Option) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:", opts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustCreate stores an expense or fails the test.
func (db *TestDB) MustCreate(title, amount, category string, date time.Time) model.Expense {
	db.t.Helper()

	created, err := db.Storage.Create(context.Background(), Expense(title, amount, category, date))
	if err != nil {
		db.t.Fatalf("failed to create expense %q: %v", title, err)
	}
	return created
}

// Expense builds an unsaved expense draft.
func Expense(title, amount, category string, date time.Time) model.Expense {
	return model.Expense{
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
}

// Day returns local midnight for the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
