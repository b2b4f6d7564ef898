package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesFinished()
	IncAutoAssignRuns()
	AddQueuePromotions(n int)
	IncSessionSaves()
	IncSessionSaveFailures()
	ObserveSaveDuration(duration float64)
	IncStateReloads()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists durable business counters across restarts,
// independent of the Prometheus process-lifetime metrics.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
