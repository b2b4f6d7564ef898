package session

import (
	"time"

	"github.com/charmbracelet/log"
)

// New creates a session with an empty roster and the default court pool.
func New() *Session {
	return NewWithClock(time.Now)
}

// NewWithClock creates a session using the given clock. Tests use this
// to pin queue times and match durations.
func NewWithClock(clock func() time.Time) *Session {
	s := &Session{clock: clock}
	for i := 0; i < DefaultCourtCount; i++ {
		s.courts = append(s.courts, newCourt(i+1))
	}
	return s
}

func newCourt(id int) *Court {
	return &Court{ID: id, Status: CourtEmpty}
}

// OnChange registers a hook invoked after every committed mutation.
// The persistence saver uses it to schedule a flush.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// markChanged must be called with the write lock held, after the new
// state is fully committed.
func (s *Session) markChanged() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Snapshot returns a deep copy of the whole aggregate.
func (s *Session) Snapshot() Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Aggregate {
	agg := Aggregate{
		Players: make([]Player, 0, len(s.players)),
		Courts:  make([]Court, 0, len(s.courts)),
		History: make([]MatchRecord, 0, len(s.history)),
	}
	for _, p := range s.players {
		agg.Players = append(agg.Players, *p)
	}
	for _, c := range s.courts {
		agg.Courts = append(agg.Courts, *c)
	}
	for _, r := range s.history {
		cp := r
		cp.Players = append([]string(nil), r.Players...)
		cp.PlayerIDs = append([]string(nil), r.PlayerIDs...)
		agg.History = append(agg.History, cp)
	}
	return agg
}

// Replace applies a loaded snapshot as a full replacement of the
// in-memory state, last writer wins. Player levels are normalized
// against the known enumeration on the way in.
func (s *Session) Replace(agg Aggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make([]*Player, 0, len(agg.Players))
	for _, p := range agg.Players {
		cp := p
		cp.Level = ParseLevel(string(p.Level))
		if cp.BattlePower <= 0 {
			cp.BattlePower = DefaultBattlePower
		}
		s.players = append(s.players, &cp)
	}

	s.courts = make([]*Court, 0, len(agg.Courts))
	for _, c := range agg.Courts {
		cp := c
		s.courts = append(s.courts, &cp)
	}

	s.history = make([]MatchRecord, 0, len(agg.History))
	for _, r := range agg.History {
		cp := r
		cp.Players = append([]string(nil), r.Players...)
		cp.PlayerIDs = append([]string(nil), r.PlayerIDs...)
		s.history = append(s.history, cp)
	}

	log.Info("Applied session snapshot", "players", len(s.players), "courts", len(s.courts), "history", len(s.history))
	s.markChanged()
}

// Reset clears the roster and history and restores the initial empty
// court pool.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = nil
	s.history = nil
	s.courts = nil
	for i := 0; i < DefaultCourtCount; i++ {
		s.courts = append(s.courts, newCourt(i+1))
	}
	log.Info("Session reset")
	s.markChanged()
}

// playerByID returns the roster entry, or nil if the id is unknown.
// Callers must hold the lock.
func (s *Session) playerByID(id string) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) playerByName(name string) *Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *Session) courtByID(id int) *Court {
	for _, c := range s.courts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// OccupantCount counts filled live slots.
func (c Court) OccupantCount() int {
	n := 0
	for _, id := range c.Players {
		if id != "" {
			n++
		}
	}
	return n
}

func (c Court) Holds(playerID string) bool {
	for _, id := range c.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

func (c Court) Queues(playerID string) bool {
	for _, q := range c.NextMatch {
		if q.PlayerID == playerID {
			return true
		}
	}
	return false
}

// refreshStatus recomputes a court's status from its occupancy. Active
// is preserved only while all four slots remain filled; a court losing
// a player mid-match drops back to ready, and a fully vacated court
// clears its start time.
func (c *Court) refreshStatus() {
	switch n := c.OccupantCount(); {
	case n == 0:
		c.Status = CourtEmpty
		c.StartedAt = nil
	case n == 4 && c.Status == CourtActive:
		// still running
	default:
		c.Status = CourtReady
	}
}

// seatedAnywhere reports whether the player occupies any live slot on
// any court.
func (s *Session) seatedAnywhere(playerID string) bool {
	for _, c := range s.courts {
		if c.Holds(playerID) {
			return true
		}
	}
	return false
}

// queuedAnywhere reports whether the player holds any next-match slot.
func (s *Session) queuedAnywhere(playerID string) bool {
	for _, c := range s.courts {
		if c.Queues(playerID) {
			return true
		}
	}
	return false
}

// refreshRosterStatuses re-derives waiting/playing from court
// occupancy: anyone seated is playing, anyone marked playing but no
// longer seated returns to waiting. Resting and fixed players are left
// alone.
func (s *Session) refreshRosterStatuses() {
	for _, p := range s.players {
		seated := s.seatedAnywhere(p.ID)
		switch {
		case seated:
			p.Status = StatusPlaying
		case p.Status == StatusPlaying:
			p.Status = StatusWaiting
		}
	}
}
