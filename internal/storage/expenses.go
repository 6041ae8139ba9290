package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, title, amount, category, date, note`

// Create assigns a fresh ID to draft, applies defaults and writes it.
// Empty categories become model.DefaultCategory and a zero date becomes today.
func (s *SQLiteStorage) Create(ctx context.Context, draft model.Expense) (model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return model.Expense{}, err
	}
	if err := validateDraft(draft); err != nil {
		return model.Expense{}, err
	}

	expense := draft
	expense.ID = uuid.NewString()
	if strings.TrimSpace(expense.Category) == "" {
		expense.Category = string(model.DefaultCategory)
	}
	if expense.Date.IsZero() {
		expense.Date = s.now()
	}
	expense.Date = model.CalendarDate(expense.Date)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		expense.ID,
		expense.Title,
		expense.Amount.String(),
		expense.Category,
		formatDate(expense.Date),
		expense.Note,
	)
	if err != nil {
		return model.Expense{}, s.persistenceError(ctx, "create", expense.ID, err)
	}

	common.LogDebug(ctx, "Created expense", common.Fields{
		"id":       expense.ID,
		"category": expense.Category,
		"amount":   expense.Amount.String(),
	})

	return expense, nil
}

// CreateBatch writes several drafts in one transaction and returns the stored records.
// Either every draft is stored or none is.
func (s *SQLiteStorage) CreateBatch(ctx context.Context, drafts []model.Expense) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	for i, draft := range drafts {
		if err := validateDraft(draft); err != nil {
			return nil, fmt.Errorf("draft at index %d: %w", i, err)
		}
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.persistenceError(ctx, "begin batch", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, s.persistenceError(ctx, "prepare batch", "", err)
	}
	defer func() { _ = stmt.Close() }()

	today := s.now()
	stored := make([]model.Expense, 0, len(drafts))
	for _, draft := range drafts {
		expense := draft
		expense.ID = uuid.NewString()
		if strings.TrimSpace(expense.Category) == "" {
			expense.Category = string(model.DefaultCategory)
		}
		if expense.Date.IsZero() {
			expense.Date = today
		}
		expense.Date = model.CalendarDate(expense.Date)

		if _, err := stmt.ExecContext(ctx,
			expense.ID,
			expense.Title,
			expense.Amount.String(),
			expense.Category,
			formatDate(expense.Date),
			expense.Note,
		); err != nil {
			return nil, s.persistenceError(ctx, "create", expense.ID, err)
		}
		stored = append(stored, expense)
	}

	if err := tx.Commit(); err != nil {
		return nil, s.persistenceError(ctx, "commit batch", "", err)
	}

	common.LogDebug(ctx, "Created expenses", common.Fields{"count": len(stored)})
	return stored, nil
}

// Update overwrites the non-nil fields of update on the expense with the given id.
func (s *SQLiteStorage) Update(ctx context.Context, id string, update model.ExpenseUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if update.IsEmpty() {
		_, err := s.Get(ctx, id)
		return err
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, update.Amount.String())
	}
	if update.Category != nil {
		category := *update.Category
		if strings.TrimSpace(category) == "" {
			category = string(model.DefaultCategory)
		}
		sets = append(sets, "category = ?")
		args = append(args, category)
	}
	if update.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, nullableDate(*update.Date))
	}
	if update.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *update.Note)
	}
	args = append(args, id)

	// #nosec G202 - column names are fixed above, values are bound parameters
	query := "UPDATE expenses SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return s.persistenceError(ctx, "update", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return s.persistenceError(ctx, "update", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	common.LogDebug(ctx, "Updated expense", common.Fields{"id": id, "fields": len(sets)})
	return nil
}

// Delete removes the expense with the given id.
// Deleting a missing expense returns common.ErrNotFound and changes nothing.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return s.persistenceError(ctx, "delete", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return s.persistenceError(ctx, "delete", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	common.LogDebug(ctx, "Deleted expense", common.Fields{"id": id})
	return nil
}

// Get returns the expense with the given id.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return model.Expense{}, err
	}
	if err := validateString(id, "id"); err != nil {
		return model.Expense{}, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expense{}, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return model.Expense{}, s.persistenceError(ctx, "get", id, err)
	}

	return expense, nil
}

// ListAll returns every stored expense ordered by ascending date.
// Expenses on the same date keep their insertion order; undated rows sort first.
func (s *SQLiteStorage) ListAll(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return listExpenses(ctx, s.db, `SELECT `+expenseColumns+` FROM expenses ORDER BY date ASC, seq ASC`)
}

func listExpenses(ctx context.Context, q queryable, query string, args ...any) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query expenses: %w", common.ErrPersistenceFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrPersistenceFailed, scanErr)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating expenses: %w", common.ErrPersistenceFailed, err)
	}

	return expenses, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (model.Expense, error) {
	var (
		expense model.Expense
		amount  string
		date    sql.NullString
	)

	if err := row.Scan(&expense.ID, &expense.Title, &amount, &expense.Category, &date, &expense.Note); err != nil {
		return model.Expense{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Expense{}, fmt.Errorf("expense %s has invalid amount %q: %w", expense.ID, amount, err)
	}
	expense.Amount = parsed

	if date.Valid && date.String != "" {
		expense.Date, err = model.ParseDate(date.String)
		if err != nil {
			return model.Expense{}, fmt.Errorf("expense %s has invalid date %q: %w", expense.ID, date.String, err)
		}
	}

	return expense, nil
}

func (s *SQLiteStorage) persistenceError(ctx context.Context, op, id string, err error) error {
	common.LogError(ctx, err, "Expense store operation failed", common.Fields{
		"operation": op,
		"id":        id,
	})
	return fmt.Errorf("%w: %s expense: %w", common.ErrPersistenceFailed, op, err)
}

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

func nullableDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(t), Valid: true}
}
