package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/session"
)

func TestAssignLiveSlotMarksPlaying(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)

	require.NoError(t, s.Assign(1, a.ID, 2, false))

	court := courtByID(t, s, 1)
	assert.Equal(t, a.ID, court.Players[2])
	assert.Equal(t, session.CourtReady, court.Status)
	assert.Equal(t, session.StatusPlaying, playerByID(t, s, a.ID).Status)
}

func TestAssignQueueSlotStampsQueueTime(t *testing.T) {
	s, clock := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)

	require.NoError(t, s.Assign(1, a.ID, 0, true))

	court := courtByID(t, s, 1)
	assert.Equal(t, a.ID, court.NextMatch[0].PlayerID)
	assert.Equal(t, clock.Now(), court.NextMatch[0].QueuedAt)
	// Queued players are not playing.
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
	// The live-slot side of the court is untouched.
	assert.Equal(t, session.CourtEmpty, court.Status)
}

func TestAssignQueueReturnsPlayingPlayerToWaiting(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))
	require.Equal(t, session.StatusPlaying, playerByID(t, s, a.ID).Status)

	require.NoError(t, s.Assign(2, a.ID, 0, true))

	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
}

// Overwriting an occupied live slot bumps the previous occupant back to
// waiting rather than leaving them stranded as playing.
func TestAssignOverwriteReturnsBumpedPlayerToWaiting(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	b := addPlayer(t, s, "Ben", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))

	require.NoError(t, s.Assign(1, b.ID, 0, false))

	court := courtByID(t, s, 1)
	assert.Equal(t, b.ID, court.Players[0])
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
	assert.Equal(t, session.StatusPlaying, playerByID(t, s, b.ID).Status)
}

func TestAssignUnknownIDsAreNoOp(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)

	require.NoError(t, s.Assign(99, a.ID, 0, false))
	require.NoError(t, s.Assign(1, "nope", 0, false))
	require.NoError(t, s.Assign(1, a.ID, 7, false))

	assert.Equal(t, session.CourtEmpty, courtByID(t, s, 1).Status)
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
}

func TestRemoveFromCourtResetsStatus(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	b := addPlayer(t, s, "Ben", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))
	require.NoError(t, s.Assign(1, b.ID, 1, false))

	require.NoError(t, s.RemoveFromCourt(1, 0, false, true))

	court := courtByID(t, s, 1)
	assert.Empty(t, court.Players[0])
	assert.Equal(t, session.CourtReady, court.Status)
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)

	require.NoError(t, s.RemoveFromCourt(1, 1, false, true))
	assert.Equal(t, session.CourtEmpty, courtByID(t, s, 1).Status)
}

func TestRemoveFromQueueKeepsRosterStatus(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, true))

	require.NoError(t, s.RemoveFromCourt(1, 0, true, true))

	assert.Empty(t, courtByID(t, s, 1).NextMatch[0].PlayerID)
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
}

func TestMoveSlotSwapsOccupants(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	b := addPlayer(t, s, "Ben", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))
	require.NoError(t, s.Assign(2, b.ID, 3, false))

	require.NoError(t, s.MoveSlot(1, 0, false, 2, 3, false))

	assert.Equal(t, a.ID, courtByID(t, s, 2).Players[3])
	assert.Equal(t, b.ID, courtByID(t, s, 1).Players[0])
	assert.Equal(t, session.StatusPlaying, playerByID(t, s, a.ID).Status)
	assert.Equal(t, session.StatusPlaying, playerByID(t, s, b.ID).Status)
}

func TestMoveSlotLiveToQueue(t *testing.T) {
	s, clock := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	require.NoError(t, s.Assign(1, a.ID, 0, false))

	require.NoError(t, s.MoveSlot(1, 0, false, 2, 1, true))

	assert.Empty(t, courtByID(t, s, 1).Players[0])
	assert.Equal(t, session.CourtEmpty, courtByID(t, s, 1).Status)
	entry := courtByID(t, s, 2).NextMatch[1]
	assert.Equal(t, a.ID, entry.PlayerID)
	assert.Equal(t, clock.Now(), entry.QueuedAt)
	// Off the live court, the player is waiting again.
	assert.Equal(t, session.StatusWaiting, playerByID(t, s, a.ID).Status)
}

func TestMoveSlotEmptySourceIsNoOp(t *testing.T) {
	s, _ := newTestSession(t)
	b := addPlayer(t, s, "Ben", 1500)
	require.NoError(t, s.Assign(2, b.ID, 0, false))

	require.NoError(t, s.MoveSlot(1, 0, false, 2, 0, false))

	assert.Equal(t, b.ID, courtByID(t, s, 2).Players[0])
}

func TestAddCourtUsesNextFreeID(t *testing.T) {
	s, _ := newTestSession(t)

	c := s.AddCourt()

	assert.Equal(t, session.DefaultCourtCount+1, c.ID)
	assert.Equal(t, session.CourtEmpty, c.Status)
	assert.Len(t, s.Courts(), session.DefaultCourtCount+1)
}

func TestRemoveCourtRequiresVacancy(t *testing.T) {
	s, _ := newTestSession(t)
	a := addPlayer(t, s, "Ann", 1500)
	last := s.Courts()[len(s.Courts())-1]
	require.NoError(t, s.Assign(last.ID, a.ID, 0, false))

	assert.ErrorIs(t, s.RemoveCourt(), session.ErrCourtOccupied)

	require.NoError(t, s.RemoveFromCourt(last.ID, 0, false, true))
	require.NoError(t, s.Assign(last.ID, a.ID, 0, true))
	assert.ErrorIs(t, s.RemoveCourt(), session.ErrCourtOccupied, "queued players also block removal")

	require.NoError(t, s.RemoveFromCourt(last.ID, 0, true, true))
	require.NoError(t, s.RemoveCourt())
	assert.Len(t, s.Courts(), session.DefaultCourtCount-1)
}

func TestClearCourtsBenchesEveryone(t *testing.T) {
	s, _ := newTestSession(t)
	var ids []string
	for _, name := range []string{"Ann", "Ben", "Cat", "Dan"} {
		ids = append(ids, addPlayer(t, s, name, 1500).ID)
	}
	seatFour(t, s, 1, ids...)
	require.NoError(t, s.StartMatch(1))

	s.ClearCourts()

	court := courtByID(t, s, 1)
	assert.Equal(t, session.CourtEmpty, court.Status)
	assert.Nil(t, court.StartedAt)
	for _, id := range ids {
		assert.Equal(t, session.StatusWaiting, playerByID(t, s, id).Status)
	}
}
