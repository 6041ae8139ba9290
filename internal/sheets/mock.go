package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/budjet/internal/service"
)

// MockWriter records exported reports by tab name instead of calling Google.
type MockWriter struct {
	tabs   map[string]service.MonthlyExport
	err    error
	writes int
	mu     sync.Mutex
}

var _ service.ReportWriter = (*MockWriter)(nil)

// NewMockWriter creates an empty mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{tabs: make(map[string]service.MonthlyExport)}
}

// Write stores report under its period's tab, replacing an earlier export
// of the same period the way the real writer clears the tab first.
func (m *MockWriter) Write(ctx context.Context, report service.MonthlyExport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.err != nil {
		return m.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.tabs[report.Period.String()] = report
	return nil
}

// Fail makes every following Write return err. A nil err restores success.
func (m *MockWriter) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Tab returns the report last written to the named tab.
func (m *MockWriter) Tab(name string) (service.MonthlyExport, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.tabs[name]
	return report, ok
}

// Tabs returns the number of distinct tabs written.
func (m *MockWriter) Tabs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tabs)
}

// Writes returns how many times Write was called, including failures.
func (m *MockWriter) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
