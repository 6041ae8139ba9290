package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/model"
	"github.com/Veraticus/budjet/internal/service"
)

// MockStore is an in-memory ExpenseStore with error injection.
type MockStore struct {
	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error
	Now       func() time.Time
	records   []model.Expense
	calls     []string
	nextID    int
	mu        sync.Mutex
	migrated  bool
	closed    bool
}

var _ service.ExpenseStore = (*MockStore)(nil)

// NewMockStore creates a mock store seeded with the given expenses.
// Seeded expenses without an ID receive one.
func NewMockStore(seed ...model.Expense) *MockStore {
	m := &MockStore{Now: time.Now}
	for _, e := range seed {
		if e.ID == "" {
			e.ID = m.newID()
		}
		m.records = append(m.records, e)
	}
	return m
}

func (m *MockStore) newID() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

// Create implements service.ExpenseStore.
func (m *MockStore) Create(_ context.Context, draft model.Expense) (model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "Create")
	if m.CreateErr != nil {
		return model.Expense{}, m.CreateErr
	}

	e := draft
	e.ID = m.newID()
	if strings.TrimSpace(e.Category) == "" {
		e.Category = string(model.DefaultCategory)
	}
	if e.Date.IsZero() {
		e.Date = m.Now()
	}
	e.Date = model.CalendarDate(e.Date)
	m.records = append(m.records, e)
	return e, nil
}

// Update implements service.ExpenseStore.
func (m *MockStore) Update(_ context.Context, id string, update model.ExpenseUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "Update")
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i] = update.Apply(m.records[i])
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
}

// Delete implements service.ExpenseStore.
func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "Delete")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
}

// Get implements service.ExpenseStore.
func (m *MockStore) Get(_ context.Context, id string) (model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "Get")
	for _, e := range m.records {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Expense{}, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
}

// ListAll implements service.ExpenseStore, ordering by date then insertion.
func (m *MockStore) ListAll(_ context.Context) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "ListAll")
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	out := make([]model.Expense, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Migrate implements service.ExpenseStore.
func (m *MockStore) Migrate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.migrated = true
	return nil
}

// Close implements service.ExpenseStore.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns the names of the store methods invoked so far.
func (m *MockStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Len returns the number of stored expenses.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Closed reports whether Close was called.
func (m *MockStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Migrated reports whether Migrate was called.
func (m *MockStore) Migrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migrated
}
