package http

import (
	"net/http"

	"github.com/ycchuang/smashqueue/internal/config"
	"github.com/ycchuang/smashqueue/internal/metrics"
	"github.com/ycchuang/smashqueue/internal/notifier"
	"github.com/ycchuang/smashqueue/internal/pubsub"
	"github.com/ycchuang/smashqueue/internal/session"
	"github.com/ycchuang/smashqueue/internal/store"
)

func NewServer(sess *session.Session, saver *store.Saver, metricsSvc metrics.Metrics, metricsStore metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Session:        sess,
		Saver:          saver,
		Metrics:        metricsSvc,
		MetricsStore:   metricsStore,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/metrics-summary", Chain(s.MetricsSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/state", Chain(s.StateHandler(), paramsMiddleware))

	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/add", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/update", Chain(s.UpdatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/remove", Chain(s.RemovePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/status", Chain(s.SetPlayerStatusHandler(), paramsMiddleware))
	s.Router.Handle("/players/import", Chain(s.ImportRosterHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/players/queue-rank", Chain(s.QueueRankHandler(), paramsMiddleware))

	s.Router.Handle("/bind", Chain(s.BindHandler(), paramsMiddleware))
	s.Router.Handle("/unbind", Chain(s.UnbindHandler(), paramsMiddleware))

	s.Router.Handle("/assign", Chain(s.AssignHandler(), paramsMiddleware))
	s.Router.Handle("/remove-from-court", Chain(s.RemoveFromCourtHandler(), paramsMiddleware))
	s.Router.Handle("/move", Chain(s.MoveSlotHandler(), paramsMiddleware))
	s.Router.Handle("/auto-assign", Chain(s.AutoAssignHandler(), paramsMiddleware))
	s.Router.Handle("/start-match", Chain(s.StartMatchHandler(), paramsMiddleware))
	s.Router.Handle("/finish-match", Chain(s.FinishMatchHandler(), paramsMiddleware))

	s.Router.Handle("/courts/add", Chain(s.AddCourtHandler(), paramsMiddleware))
	s.Router.Handle("/courts/remove", Chain(s.RemoveCourtHandler(), paramsMiddleware))
	s.Router.Handle("/courts/clear", Chain(s.ClearCourtsHandler(), paramsMiddleware))

	s.Router.Handle("/history", Chain(s.HistoryHandler(), paramsMiddleware))
	s.Router.Handle("/history/update", Chain(s.UpdateMatchRecordHandler(), paramsMiddleware))
	s.Router.Handle("/history/delete", Chain(s.DeleteMatchRecordHandler(), paramsMiddleware))
	s.Router.Handle("/history/clear", Chain(s.ClearHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/history/clear-today", Chain(s.ClearTodayHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/reset-play-counts", Chain(s.ResetPlayCountsHandler(), paramsMiddleware))

	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/notify-summary", Chain(s.NotifySummaryHandler(), paramsMiddleware))
	s.Router.Handle("/notify-leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))

	s.Router.Handle("/reload", Chain(s.ReloadHandler(), paramsMiddleware))
	s.Router.Handle("/reset", Chain(s.ResetHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
