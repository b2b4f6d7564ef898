package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/database"
	"github.com/ycchuang/smashqueue/internal/session"
	"github.com/ycchuang/smashqueue/internal/store"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (store.SnapshotStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	st := store.New(db)
	teardown := func() {
		dbTeardown()
		db.Close()
	}

	return st, teardown
}

func sampleAggregate() session.Aggregate {
	started := time.Date(2025, 6, 14, 19, 30, 0, 0, time.UTC)
	queued := time.Date(2025, 6, 14, 19, 45, 12, 0, time.UTC)

	return session.Aggregate{
		Players: []session.Player{
			{ID: "p1", Name: "Ann", Level: session.LevelAdvanced, BattlePower: 1800, PlayCount: 3, Status: session.StatusPlaying, PartnerID: "p2"},
			{ID: "p2", Name: "Ben", Level: session.LevelIntermediate, BattlePower: 1500, PlayCount: 3, Status: session.StatusPlaying, PartnerID: "p1"},
			{ID: "p3", Name: "Cat", Level: session.LevelBeginner, BattlePower: 1200, PlayCount: 1, Status: session.StatusResting},
		},
		Courts: []session.Court{
			{
				ID:        1,
				Players:   [4]string{"p1", "p2", "", ""},
				NextMatch: [4]session.QueueSlot{{PlayerID: "p3", QueuedAt: queued}},
				Status:    session.CourtReady,
			},
			{
				ID:        2,
				Status:    session.CourtActive,
				Players:   [4]string{"a", "b", "c", "d"},
				StartedAt: &started,
			},
		},
		History: []session.MatchRecord{
			{
				ID:        "m1",
				Date:      "2025-06-14",
				Time:      "19:20",
				Duration:  25,
				CourtID:   1,
				Players:   []string{"Ann", "Ben", "Cat", "Dee"},
				PlayerIDs: []string{"p1", "p2", "p3", "p4"},
				Score:     "21 : 15",
				Winner:    session.WinnerTeamA,
			},
		},
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	_, found, err := st.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	want := sampleAggregate()
	require.NoError(t, st.Save(want))

	got, found, err := st.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, st.Save(sampleAggregate()))

	smaller := session.Aggregate{
		Players: []session.Player{
			{ID: "p9", Name: "Eve", Level: session.LevelPro, BattlePower: 2100, Status: session.StatusWaiting},
		},
		Courts: []session.Court{{ID: 1, Status: session.CourtEmpty}},
	}
	require.NoError(t, st.Save(smaller))

	got, found, err := st.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, smaller, got)
}

func TestLoadNormalizesUnknownLevel(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	agg := session.Aggregate{
		Players: []session.Player{
			{ID: "p1", Name: "Ann", Level: "legendary", BattlePower: 1500, Status: session.StatusWaiting},
		},
	}
	require.NoError(t, st.Save(agg))

	got, found, err := st.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, session.LevelIntermediate, got.Players[0].Level)
}

func TestClear(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, st.Save(sampleAggregate()))
	require.NoError(t, st.Clear())

	_, found, err := st.Load()
	require.NoError(t, err)
	assert.False(t, found)
}
