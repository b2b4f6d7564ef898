package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesFinished     int
	autoAssignRuns      int
	queuePromotions     int
	sessionSaves        int
	sessionSaveFailures int
	saveDurations       []float64
	stateReloads        int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		saveDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFinished++
}

func (m *Mock) IncAutoAssignRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoAssignRuns++
}

func (m *Mock) AddQueuePromotions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queuePromotions += n
}

func (m *Mock) IncSessionSaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionSaves++
}

func (m *Mock) IncSessionSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionSaveFailures++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncStateReloads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateReloads++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesFinished returns the number of times IncMatchesFinished was called.
func (m *Mock) MatchesFinished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFinished
}

// AutoAssignRuns returns the number of times IncAutoAssignRuns was called.
func (m *Mock) AutoAssignRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoAssignRuns
}

// QueuePromotions returns the total count passed to AddQueuePromotions.
func (m *Mock) QueuePromotions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queuePromotions
}

// SessionSaves returns the number of times IncSessionSaves was called.
func (m *Mock) SessionSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionSaves
}

// SessionSaveFailures returns the number of times IncSessionSaveFailures was called.
func (m *Mock) SessionSaveFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionSaveFailures
}

// SaveDurations returns every duration observed so far.
func (m *Mock) SaveDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.saveDurations...)
}

// StateReloads returns the number of times IncStateReloads was called.
func (m *Mock) StateReloads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateReloads
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
