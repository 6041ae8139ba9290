package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version this build writes and reads.
const ExpectedSchemaVersion = 3

// ErrSchemaTooNew is returned for databases migrated by a newer budjet.
var ErrSchemaTooNew = errors.New("database schema is newer than this version of budjet")

// Migration is one schema step. Its statements run in a single transaction
// together with the user_version bump.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS expenses (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT UNIQUE NOT NULL,
				title TEXT NOT NULL,
				amount TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT 'Other',
				date TEXT,
				note TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		},
	},
	{
		Version:     2,
		Description: "Add category index for grouped listings",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category)`,
		},
	},
	{
		Version:     3,
		Description: "Track last modification time",
		Statements: []string{
			`ALTER TABLE expenses ADD COLUMN updated_at DATETIME`,
			`UPDATE expenses SET updated_at = created_at WHERE updated_at IS NULL`,
			`CREATE TRIGGER IF NOT EXISTS update_expenses_updated_at
				AFTER UPDATE ON expenses
				FOR EACH ROW
				BEGIN
					UPDATE expenses SET updated_at = CURRENT_TIMESTAMP WHERE seq = NEW.seq;
				END`,
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion. It is safe to call
// on every start.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > ExpectedSchemaVersion {
		return fmt.Errorf("%w: found version %d, supported %d", ErrSchemaTooNew, current, ExpectedSchemaVersion)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}

func (s *SQLiteStorage) apply(ctx context.Context, m Migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range m.Statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) statement %d failed: %w", m.Version, m.Description, i+1, err)
		}
	}

	// PRAGMA does not accept bound parameters
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
