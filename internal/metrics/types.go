package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesFinished     prometheus.Counter
	AutoAssignRuns      prometheus.Counter
	QueuePromotions     prometheus.Counter
	SessionSaves        prometheus.Counter
	SessionSaveFailures prometheus.Counter
	SaveDuration        prometheus.Histogram
	StateReloads        prometheus.Counter
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
