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

type Server struct {
	Session        *session.Session
	Saver          *store.Saver
	Metrics        metrics.Metrics
	MetricsStore   metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
