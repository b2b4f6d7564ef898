package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/session"
)

// testClock is a controllable clock shared by the session tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestSession(t *testing.T) (*session.Session, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)}
	return session.NewWithClock(clock.Now), clock
}

// addPlayer registers a player and fails the test on any precondition error.
func addPlayer(t *testing.T, s *session.Session, name string, power int) session.Player {
	t.Helper()
	p, err := s.AddPlayer(name, session.LevelIntermediate, power)
	require.NoError(t, err)
	return *p
}

// seatFour places four players on the given court's live slots.
func seatFour(t *testing.T, s *session.Session, courtID int, ids ...string) {
	t.Helper()
	require.Len(t, ids, 4)
	for i, id := range ids {
		require.NoError(t, s.Assign(courtID, id, i, false))
	}
}

func courtByID(t *testing.T, s *session.Session, id int) session.Court {
	t.Helper()
	for _, c := range s.Courts() {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("court %d not found", id)
	return session.Court{}
}

func playerByID(t *testing.T, s *session.Session, id string) session.Player {
	t.Helper()
	p, ok := s.Player(id)
	require.True(t, ok, "player %s not found", id)
	return p
}

// The court read helpers take value receivers so they can be called on
// the copies Courts() and courtByID hand out.
func TestCourtReadHelpersOnCopies(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	b := addPlayer(t, s, "Ben", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))
	require.NoError(t, s.Assign(1, b.ID, 0, true))

	require.Equal(t, 1, courtByID(t, s, 1).OccupantCount())
	require.True(t, s.Courts()[0].Holds(a.ID))
	require.True(t, s.Courts()[0].Queues(b.ID))
	require.False(t, s.Courts()[1].Holds(a.ID))
}
