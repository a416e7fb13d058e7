package analytics

import (
	"context"
	"sync"
)

var _ Service = (*MockAnalytics)(nil)

// MockAnalytics records events in memory. It doubles as the no-op service
// when no ClickHouse DSN is configured and as a capture point in tests.
type MockAnalytics struct {
	mu     sync.Mutex
	events []Event
}

// NewMockAnalytics creates a new mock analytics instance.
func NewMockAnalytics() *MockAnalytics {
	return &MockAnalytics{}
}

// RecordEvent stores the event in memory.
func (m *MockAnalytics) RecordEvent(ctx context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of everything recorded so far.
func (m *MockAnalytics) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
