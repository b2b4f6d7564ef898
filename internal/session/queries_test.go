package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/session"
)

func TestQueueRankOrdersByQueueTime(t *testing.T) {
	s, clock := newTestSession(t)
	eve := addPlayer(t, s, "Eve", 1500)
	fay := addPlayer(t, s, "Fay", 1500)

	require.NoError(t, s.Assign(2, eve.ID, 0, true))
	clock.Advance(time.Minute)
	require.NoError(t, s.Assign(1, eve.ID, 0, true))
	clock.Advance(time.Minute)
	require.NoError(t, s.Assign(3, eve.ID, 0, true))

	assert.Equal(t, 1, s.QueueRank(eve.ID, 2))
	assert.Equal(t, 2, s.QueueRank(eve.ID, 1))
	assert.Equal(t, 3, s.QueueRank(eve.ID, 3))

	assert.Equal(t, 0, s.QueueRank(fay.ID, 1), "not queued anywhere")
	assert.Equal(t, 0, s.QueueRank(eve.ID, 99), "not queued on that court")
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	s, _ := newTestSession(t)
	_, ok := s.PlayerStats("nope")
	assert.False(t, ok)
}

func TestPlayerStatsAggregates(t *testing.T) {
	s, clock := newTestSession(t)
	ann := addPlayer(t, s, "Ann", 1500)
	ben := addPlayer(t, s, "Ben", 1500)
	cat := addPlayer(t, s, "Cat", 1500)
	dan := addPlayer(t, s, "Dan", 1500)

	play := func(ids []string, scoreA, scoreB int) {
		seatFour(t, s, 1, ids...)
		require.NoError(t, s.StartMatch(1))
		clock.Advance(15 * time.Minute)
		_, _, err := s.FinishMatch(1, scoreA, scoreB, "")
		require.NoError(t, err)
	}

	// Yesterday: Ann+Ben beat Cat+Dan twice.
	play([]string{ann.ID, ben.ID, cat.ID, dan.ID}, 21, 15)
	play([]string{ann.ID, ben.ID, cat.ID, dan.ID}, 21, 10)

	// Today: Ann+Cat lose to Ben+Dan.
	clock.Advance(24 * time.Hour)
	play([]string{ann.ID, cat.ID, ben.ID, dan.ID}, 12, 21)

	report, ok := s.PlayerStats(ann.ID)
	require.True(t, ok)
	assert.Equal(t, ann.ID, report.PlayerID)
	assert.Equal(t, "Ann", report.PlayerName)

	assert.Equal(t, 3, report.Total.TotalGames)
	assert.Equal(t, 2, report.Total.Wins)
	assert.Equal(t, 67, report.Total.WinRate)

	assert.Equal(t, 1, report.Today.TotalGames)
	assert.Equal(t, 0, report.Today.Wins)

	// Ben was Ann's partner twice (both wins), Cat once (a loss).
	require.Len(t, report.Total.Partners, 2)
	assert.Equal(t, session.CounterpartStats{Name: "Ben", Count: 2, Wins: 2, WinRate: 100}, report.Total.Partners[0])
	assert.Equal(t, session.CounterpartStats{Name: "Cat", Count: 1, Wins: 0, WinRate: 0}, report.Total.Partners[1])

	// Dan opposed Ann in all three matches, Cat twice, Ben once.
	require.Len(t, report.Total.Opponents, 3)
	assert.Equal(t, "Dan", report.Total.Opponents[0].Name)
	assert.Equal(t, 3, report.Total.Opponents[0].Count)
	assert.Equal(t, 2, report.Total.Opponents[0].Wins)
	assert.Equal(t, "Cat", report.Total.Opponents[1].Name)
	assert.Equal(t, 2, report.Total.Opponents[1].Count)

	// Daily tallies, newest first.
	require.Len(t, report.Daily, 2)
	assert.Equal(t, session.DailyStats{Date: "2025-06-15", Count: 1, Wins: 0}, report.Daily[0])
	assert.Equal(t, session.DailyStats{Date: "2025-06-14", Count: 2, Wins: 2}, report.Daily[1])
}

func TestPlayerStatsEmptyHistory(t *testing.T) {
	s, _ := newTestSession(t)
	ann := addPlayer(t, s, "Ann", 1500)

	report, ok := s.PlayerStats(ann.ID)
	require.True(t, ok)
	assert.Zero(t, report.Total.TotalGames)
	assert.Zero(t, report.Total.WinRate)
	assert.Empty(t, report.Total.Partners)
	assert.Empty(t, report.Daily)
}
