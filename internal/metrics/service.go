package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_matches_finished_total",
			Help: "The total number of matches recorded as finished.",
		}),
		AutoAssignRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_auto_assign_runs_total",
			Help: "The total number of auto-assign rounds executed.",
		}),
		QueuePromotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_queue_promotions_total",
			Help: "The total number of queue promotion passes after a finished match.",
		}),
		SessionSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_session_saves_total",
			Help: "The total number of session snapshots written to the database.",
		}),
		SessionSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_session_save_failures_total",
			Help: "The total number of session snapshot writes that failed.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smashqueue_session_save_duration_seconds",
			Help:    "The duration of individual session snapshot writes.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StateReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_state_reloads_total",
			Help: "The total number of times session state was reloaded from the database.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smashqueue_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesFinished,
		s.AutoAssignRuns,
		s.QueuePromotions,
		s.SessionSaves,
		s.SessionSaveFailures,
		s.SaveDuration,
		s.StateReloads,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesFinished() {
	s.MatchesFinished.Inc()
}

func (s *Service) IncAutoAssignRuns() {
	s.AutoAssignRuns.Inc()
}

func (s *Service) AddQueuePromotions(n int) {
	s.QueuePromotions.Add(float64(n))
}

func (s *Service) IncSessionSaves() {
	s.SessionSaves.Inc()
}

func (s *Service) IncSessionSaveFailures() {
	s.SessionSaveFailures.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncStateReloads() {
	s.StateReloads.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
