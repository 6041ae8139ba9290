package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dbPath string
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "budjet.db")

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("BUDJET_DATABASE_PATH", dbPath)
	t.Setenv("BUDJET_LOGGING_LEVEL", "error")

	previous := now
	now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = previous })

	return testEnv{dbPath: dbPath}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, out)
	return out
}

func storedExpenses(t *testing.T, env testEnv) []model.Expense {
	t.Helper()
	store, err := storage.NewSQLiteStorage(env.dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	return records
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	assert.Contains(t, mustExecute(t, "version"), "budjet dev")
}

func TestAddAndList(t *testing.T) {
	env := setupEnv(t)

	out := mustExecute(t, "add", "--title", "Coffee", "--amount", "4.50", "--date", "2024-03-05")
	assert.Contains(t, out, "Added Coffee ($4.50, Food)")

	mustExecute(t, "add", "-t", "Rent", "-a", "1200", "-c", "bills", "-d", "2024-03-01", "-n", "March rent")

	records := storedExpenses(t, env)
	require.Len(t, records, 2)
	assert.Equal(t, "Rent", records[0].Title)
	assert.Equal(t, "Bills", records[0].Category)
	assert.Equal(t, "March rent", records[0].Note)

	out = mustExecute(t, "list", "--ids")
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "$1204.50")
	assert.Contains(t, out, records[0].ID)
}

func TestAdd_DefaultsToToday(t *testing.T) {
	env := setupEnv(t)

	mustExecute(t, "add", "--title", "Lunch", "--amount", "12")

	records := storedExpenses(t, env)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-20", records[0].Date.Format(model.DateLayout))
	assert.Equal(t, "Food", records[0].Category)
}

func TestAdd_Validation(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "add", "--amount", "abc")
	require.Error(t, err)
	line := errorLine(err)
	assert.Contains(t, line, "--title: title is required")
	assert.Contains(t, line, "--amount")

	_, err = execute(t, "add", "--title", "Thing", "--amount", "3", "--category", "Fun")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "--category")

	assert.Empty(t, storedExpenses(t, env))
}

func TestSummary(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "add", "-t", "Coffee", "-a", "4.50", "-d", "2024-03-05")
	mustExecute(t, "add", "-t", "Rent", "-a", "1200.00", "-c", "Bills", "-d", "2024-03-01")
	mustExecute(t, "add", "-t", "Concert", "-a", "80", "-c", "Entertainment", "-d", "2024-02-14")

	out := mustExecute(t, "summary")
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "Total $1204.50")
	assert.NotContains(t, out, "Entertainment")

	out = mustExecute(t, "summary", "--month", "2")
	assert.Contains(t, out, "Total $80.00")

	out = mustExecute(t, "list", "--all")
	assert.Contains(t, out, "All expenses")
	assert.Contains(t, out, "$1284.50")
}

func TestPeriodFlags_Validation(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "summary", "--month", "13")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "invalid month 13")

	_, err = execute(t, "list", "--year", "2019")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "between 2022 and 2024")

	_, err = execute(t, "summary", "--year", "2025")
	require.Error(t, err)
}

func TestEdit(t *testing.T) {
	env := setupEnv(t)

	mustExecute(t, "add", "-t", "Coffee", "-a", "4.50", "-d", "2024-03-05", "-n", "oat")
	id := storedExpenses(t, env)[0].ID

	out := mustExecute(t, "edit", id, "--amount", "5", "--category", "Groceries")
	assert.Contains(t, out, "Updated Coffee")

	records := storedExpenses(t, env)
	require.Len(t, records, 1)
	assert.Equal(t, "5", records[0].Amount.String())
	assert.Equal(t, "Groceries", records[0].Category)
	assert.Equal(t, "oat", records[0].Note, "untouched fields keep their values")
	assert.Equal(t, "2024-03-05", records[0].Date.Format(model.DateLayout))

	_, err := execute(t, "edit", id)
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "nothing to change")

	_, err = execute(t, "edit", id, "--title", "  ")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "title is required")

	_, err = execute(t, "edit", "missing-id", "--title", "x")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "no longer exists")
}

func TestEdit_KeepsLegacyCategory(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(env.dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	legacy, err := store.Create(ctx, model.Expense{
		Title:    "Flight",
		Amount:   decimal.RequireFromString("320"),
		Category: "Travel",
		Date:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out := mustExecute(t, "edit", legacy.ID, "--title", "Flight home")
	assert.Contains(t, out, "Updated Flight home")

	records := storedExpenses(t, env)
	require.Len(t, records, 1)
	assert.Equal(t, "Flight home", records[0].Title)
	assert.Equal(t, "Travel", records[0].Category)

	_, err = execute(t, "edit", legacy.ID, "--category", "Cruise")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "--category")
}

func TestDelete(t *testing.T) {
	env := setupEnv(t)

	mustExecute(t, "add", "-t", "Coffee", "-a", "4.50")
	mustExecute(t, "add", "-t", "Rent", "-a", "1200", "-c", "Bills")
	records := storedExpenses(t, env)
	require.Len(t, records, 2)

	var coffee model.Expense
	for _, e := range records {
		if e.Title == "Coffee" {
			coffee = e
		}
	}

	out := mustExecute(t, "delete", coffee.ID)
	assert.Contains(t, out, "Deleted Coffee")

	remaining := storedExpenses(t, env)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Rent", remaining[0].Title)

	_, err := execute(t, "rm", coffee.ID)
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "That expense no longer exists.")
}

func TestCategories(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "categories")
	for _, c := range model.Categories {
		assert.Contains(t, out, c.String())
	}
	assert.Less(t, strings.Index(out, "Food"), strings.Index(out, "Groceries"))
}

func TestMigrateStatus(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "migrate")
	out := mustExecute(t, "migrate", "--status")
	assert.Contains(t, out, "Current version: 3")
	assert.Contains(t, out, "Latest version:  3")
}

func TestExport_RequiresConfiguration(t *testing.T) {
	setupEnv(t)
	for _, name := range []string{"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_REFRESH_TOKEN"} {
		t.Setenv(name, "")
	}

	_, err := execute(t, "export")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "budjet auth sheets")
}

func TestAuthSheets_RequiresCredentials(t *testing.T) {
	setupEnv(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")

	_, err := execute(t, "auth", "sheets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OAuth2 credentials not found")
}

func TestConfigFile(t *testing.T) {
	setupEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("display:\n  currency_symbol: \"€\"\n"), 0o600))

	out := mustExecute(t, "--config", cfgPath, "add", "-t", "Croissant", "-a", "2.10")
	assert.Contains(t, out, "€2.10")

	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "categories")
	require.Error(t, err)
}
