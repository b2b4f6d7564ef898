package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ycchuang/smashqueue/internal/metrics"
	"github.com/ycchuang/smashqueue/internal/session"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleRecord() *session.MatchRecord {
	return &session.MatchRecord{
		ID:        "m1",
		Date:      "2025-06-14",
		Time:      "19:45",
		Duration:  25,
		CourtID:   2,
		Players:   []string{"Ann", "Ben", "Cat", "Dan"},
		PlayerIDs: []string{"p1", "p2", "p3", "p4"},
		Score:     "21 : 15",
		Winner:    session.WinnerTeamA,
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendResultNotification(sampleRecord(), false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatResultNotification(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(sampleRecord())

	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🏸 Match finished! 🏸", header.Text.Text)
	assert.True(t, header.Text.Emoji)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Second block should be a SectionBlock")
	assert.Equal(t, "Court 2 at 2025-06-14 19:45", details.Text.Text)

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok, "Third block should be a SectionBlock")
	assert.Equal(t, "Result: Ann & Ben won! 🏆", result.Text.Text)
	require.Len(t, result.Fields, 1)
	assert.Equal(t, "Score\n21 : 15", result.Fields[0].Text)

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok, "Fourth block should be a ContextBlock")
	require.Len(t, contextBlock.ContextElements.Elements, 1)
	durationElement, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "⏱ 25 minutes played", durationElement.Text)
}

func TestFormatResultNotification_TeamBAndDraw(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	rec := sampleRecord()
	rec.Winner = session.WinnerTeamB
	msg := client.formatResultNotification(rec)
	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Cat & Dan won! 🏆", result.Text.Text)

	rec.Winner = session.WinnerDraw
	msg = client.formatResultNotification(rec)
	result, ok = msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: It's a draw! 🤝", result.Text.Text)
}

func TestFormatSessionSummary(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("lists players by games played", func(t *testing.T) {
		players := []session.Player{
			{Name: "Ann", PlayCount: 1},
			{Name: "Ben", PlayCount: 3},
		}
		history := []session.MatchRecord{{ID: "m1"}, {ID: "m2"}}

		msg := client.formatSessionSummary(players, history)
		require.Len(t, msg.Blocks.BlockSet, 3)

		overview, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Players: 2\nMatches played: 2", overview.Text.Text)

		games, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Games played:\n• Ben: 3 games\n• Ann: 1 games", games.Text.Text)
	})

	t.Run("handles an empty session", func(t *testing.T) {
		msg := client.formatSessionSummary(nil, nil)
		require.Len(t, msg.Blocks.BlockSet, 2)

		overview, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Players: 0\nMatches played: 0", overview.Text.Text)
	})
}

func TestFormatLeaderboard(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("ranks players by battle power", func(t *testing.T) {
		players := []session.Player{
			{Name: "Ann", BattlePower: 1500, PlayCount: 2},
			{Name: "Ben", BattlePower: 1900, PlayCount: 4},
			{Name: "Cat", BattlePower: 1700, PlayCount: 3},
			{Name: "Dan", BattlePower: 1200, PlayCount: 1},
		}

		msg := client.formatLeaderboard(players)
		require.Len(t, msg.Blocks.BlockSet, 5, "Expected header + 4 players")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Battle Power Leaderboard 🏆", header.Text.Text)

		first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, first.Text.Text, "1. 🥇 Ben")
		assert.Contains(t, first.Text.Text, "> *Battle Power*: 1900")

		fourth, ok := msg.Blocks.BlockSet[4].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, fourth.Text.Text, "4. Dan")
	})

	t.Run("displays message when the roster is empty", func(t *testing.T) {
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)

		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No players found.", message.Text.Text)
	})
}
