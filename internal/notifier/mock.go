package notifier

import (
	"sync"

	"github.com/ycchuang/smashqueue/internal/session"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(record *session.MatchRecord, dryRun bool) error
	SendSessionSummaryFunc     func(players []session.Player, history []session.MatchRecord, dryRun bool) error
	SendLeaderboardFunc        func(players []session.Player, dryRun bool) error

	// Call records
	SendResultNotificationCalls []*session.MatchRecord
	SendSessionSummaryCalls     int
	SendLeaderboardCalls        [][]session.Player
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendSessionSummaryCalls = 0
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendResultNotification(record *session.MatchRecord, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, record)
	fn := m.SendResultNotificationFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(record, dryRun)
	}
	return nil
}

func (m *Mock) SendSessionSummary(players []session.Player, history []session.MatchRecord, dryRun bool) error {
	m.mu.Lock()
	m.SendSessionSummaryCalls++
	fn := m.SendSessionSummaryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(players, history, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(players []session.Player, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	fn := m.SendLeaderboardFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(players, dryRun)
	}
	return nil
}

// ResultNotifications returns every record passed to SendResultNotification.
func (m *Mock) ResultNotifications() []*session.MatchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*session.MatchRecord(nil), m.SendResultNotificationCalls...)
}

// SessionSummaries returns the number of times SendSessionSummary was called.
func (m *Mock) SessionSummaries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SendSessionSummaryCalls
}
