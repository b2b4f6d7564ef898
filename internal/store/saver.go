package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ycchuang/smashqueue/internal/metrics"
	"github.com/ycchuang/smashqueue/internal/pubsub"
	"github.com/ycchuang/smashqueue/internal/session"
)

// Saver writes session snapshots to a SnapshotStore. Changes are
// debounced: a burst of mutations produces one write after the session
// has been quiet for the configured interval. Applying a snapshot read
// from the database goes through the saver too, so a load never
// triggers a redundant save of the state it just loaded.
type Saver struct {
	store    SnapshotStore
	sess     *session.Session
	debounce time.Duration
	metrics  metrics.Metrics
	events   pubsub.PubSubClient

	// applying suppresses MarkDirty while Replace runs with remote
	// state, since Replace itself fires the change callback.
	applying atomic.Bool

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewSaver creates a Saver and registers it as the session's change
// observer. The events client may be nil when no broker is configured.
func NewSaver(st SnapshotStore, sess *session.Session, debounce time.Duration, m metrics.Metrics, events pubsub.PubSubClient) *Saver {
	s := &Saver{
		store:    st,
		sess:     sess,
		debounce: debounce,
		metrics:  m,
		events:   events,
	}
	sess.OnChange(s.MarkDirty)
	return s
}

// MarkDirty schedules a save after the debounce interval, restarting
// the countdown if one is already pending.
func (s *Saver) MarkDirty() {
	if s.applying.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.flush()
	})
}

// Flush cancels any pending debounce and writes a snapshot now.
func (s *Saver) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.flush()
}

func (s *Saver) flush() error {
	agg := s.sess.Snapshot()

	start := time.Now()
	err := s.store.Save(agg)
	if s.metrics != nil {
		s.metrics.ObserveSaveDuration(time.Since(start).Seconds())
	}
	if err != nil {
		log.Error("Failed to save session snapshot", "error", err)
		if s.metrics != nil {
			s.metrics.IncSessionSaveFailures()
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.IncSessionSaves()
	}
	if s.events != nil {
		event := pubsub.SessionSavedEvent{
			Players: len(agg.Players),
			Courts:  len(agg.Courts),
			History: len(agg.History),
		}
		if err := s.events.SendMessage(pubsub.EventSessionSaved, event); err != nil {
			log.Error("Failed to publish session saved event", "error", err)
		}
	}
	log.Debug("Session snapshot saved", "players", len(agg.Players), "courts", len(agg.Courts), "history", len(agg.History))
	return nil
}

// Apply replaces the in-memory session with a snapshot without
// scheduling a save of it.
func (s *Saver) Apply(agg session.Aggregate) {
	s.applying.Store(true)
	defer s.applying.Store(false)
	s.sess.Replace(agg)
}

// Reload re-reads the persisted snapshot and applies it. Returns false
// when the database holds no snapshot; the in-memory state is then left
// untouched.
func (s *Saver) Reload() (bool, error) {
	agg, found, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	s.Apply(agg)
	if s.metrics != nil {
		s.metrics.IncStateReloads()
	}
	return true, nil
}

// Close stops the saver and writes a final snapshot so no debounced
// change is lost on shutdown.
func (s *Saver) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.flush()
}
