package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

// MockRecorder stands in for ClickHouse analytics in local development. It
// logs each action and keeps the most recent ones in memory.
type MockRecorder struct {
	mu     sync.Mutex
	keep   int
	recent []analytics.Action
}

// NewMockRecorder keeps at most keep actions
func NewMockRecorder(keep int) *MockRecorder {
	logger.Info("Using MOCK ClickHouse analytics for local development")
	if keep <= 0 {
		keep = 100
	}
	return &MockRecorder{keep: keep}
}

// Record stores the action
func (m *MockRecorder) Record(_ context.Context, a analytics.Action) {
	if a.At.IsZero() {
		a.At = time.Now()
	}
	logger.Debug("Mock analytics action", "action", a.Kind, "team_id", a.TeamID, "target_id", a.TargetID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append(m.recent, a)
	if len(m.recent) > m.keep {
		m.recent = m.recent[len(m.recent)-m.keep:]
	}
}

// Recent returns a copy of the stored actions, oldest first
func (m *MockRecorder) Recent() []analytics.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]analytics.Action(nil), m.recent...)
}

// Ping always succeeds
func (m *MockRecorder) Ping(context.Context) error { return nil }

// Close is a no-op for the mock
func (m *MockRecorder) Close() error { return nil }
