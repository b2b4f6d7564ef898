package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/metrics"
	"github.com/ycchuang/smashqueue/internal/pubsub"
	"github.com/ycchuang/smashqueue/internal/session"
	"github.com/ycchuang/smashqueue/internal/store"
)

func TestSaverDebouncesBursts(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	saver := store.NewSaver(mock, sess, 50*time.Millisecond, metrics.NewMock(), nil)
	defer saver.Close()

	_, err := sess.AddPlayer("Ann", session.LevelIntermediate, 0)
	require.NoError(t, err)
	_, err = sess.AddPlayer("Ben", session.LevelIntermediate, 0)
	require.NoError(t, err)
	_, err = sess.AddPlayer("Cat", session.LevelIntermediate, 0)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(mock.Saves()) == 1
	}, time.Second, 10*time.Millisecond)

	saves := mock.Saves()
	require.Len(t, saves, 1)
	assert.Len(t, saves[0].Players, 3, "the single write carries the final state")
}

func TestSaverFlushWritesImmediately(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	m := metrics.NewMock()
	saver := store.NewSaver(mock, sess, time.Hour, m, nil)

	_, err := sess.AddPlayer("Ann", session.LevelIntermediate, 0)
	require.NoError(t, err)

	require.NoError(t, saver.Flush())
	assert.Len(t, mock.Saves(), 1)
	assert.Equal(t, 1, m.SessionSaves())
	assert.Len(t, m.SaveDurations(), 1)
}

func TestSaverApplyDoesNotTriggerSave(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	saver := store.NewSaver(mock, sess, 20*time.Millisecond, metrics.NewMock(), nil)

	saver.Apply(session.Aggregate{
		Players: []session.Player{{ID: "p1", Name: "Ann", Level: session.LevelIntermediate, BattlePower: 1500, Status: session.StatusWaiting}},
	})

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, mock.Saves(), "applying remote state must not write it straight back")

	players := sess.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "Ann", players[0].Name)
}

func TestSaverReloadAppliesStoredState(t *testing.T) {
	mock := &store.MockStore{
		LoadFunc: func() (session.Aggregate, bool, error) {
			return session.Aggregate{
				Players: []session.Player{{ID: "p1", Name: "Ann", Level: session.LevelPro, BattlePower: 2000, Status: session.StatusWaiting}},
				Courts:  []session.Court{{ID: 1, Status: session.CourtEmpty}},
			}, true, nil
		},
	}
	sess := session.New()
	m := metrics.NewMock()
	saver := store.NewSaver(mock, sess, 20*time.Millisecond, m, nil)

	found, err := saver.Reload()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, m.StateReloads())

	players := sess.Players()
	require.Len(t, players, 1)
	assert.Equal(t, session.LevelPro, players[0].Level)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, mock.Saves())
}

func TestSaverReloadEmptyStoreLeavesStateAlone(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	saver := store.NewSaver(mock, sess, time.Hour, metrics.NewMock(), nil)
	_ = saver

	_, err := sess.AddPlayer("Ann", session.LevelIntermediate, 0)
	require.NoError(t, err)

	found, err := saver.Reload()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, sess.Players(), 1)
}

func TestSaverCloseFlushesPendingChange(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	saver := store.NewSaver(mock, sess, time.Hour, metrics.NewMock(), nil)

	_, err := sess.AddPlayer("Ann", session.LevelIntermediate, 0)
	require.NoError(t, err)

	require.NoError(t, saver.Close())
	require.Len(t, mock.Saves(), 1)

	// After close, further changes no longer schedule writes.
	_, err = sess.AddPlayer("Ben", session.LevelIntermediate, 0)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, mock.Saves(), 1)
}

func TestSaverRecordsSaveFailures(t *testing.T) {
	mock := &store.MockStore{
		SaveFunc: func(session.Aggregate) error {
			return errors.New("disk full")
		},
	}
	sess := session.New()
	m := metrics.NewMock()
	saver := store.NewSaver(mock, sess, time.Hour, m, nil)

	err := saver.Flush()
	require.Error(t, err)
	assert.Equal(t, 1, m.SessionSaveFailures())
	assert.Equal(t, 0, m.SessionSaves())
}

func TestSaverPublishesSavedEvent(t *testing.T) {
	mock := &store.MockStore{}
	sess := session.New()
	events := pubsub.NewMock("TEST")
	saver := store.NewSaver(mock, sess, time.Hour, metrics.NewMock(), events)

	_, err := sess.AddPlayer("Ann", session.LevelIntermediate, 0)
	require.NoError(t, err)
	require.NoError(t, saver.Flush())

	require.Len(t, events.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventSessionSaved), events.SendMessageCalls[0].Topic)
	event, ok := events.SendMessageCalls[0].Data.(pubsub.SessionSavedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, event.Players)
}
