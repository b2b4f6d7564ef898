package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/ycchuang/smashqueue/internal/metrics"
	"github.com/ycchuang/smashqueue/internal/notifier"
	"github.com/ycchuang/smashqueue/internal/session"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendResultNotification(record *session.MatchRecord, dryRun bool) error {
	msg := s.formatResultNotification(record)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSessionSummary(players []session.Player, history []session.MatchRecord, dryRun bool) error {
	msg := s.formatSessionSummary(players, history)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []session.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(record *session.MatchRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏸 Match finished! 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	detailsText := fmt.Sprintf("Court %d at %s %s", record.CourtID, record.Date, record.Time)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	// Result
	resultText := fmt.Sprintf("Result: %s", resultLine(record))
	scoreField := slack.NewTextBlockObject("plain_text", fmt.Sprintf("Score\n%s", record.Score), false, false)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, false, false), []*slack.TextBlockObject{scoreField}, nil))

	// Context
	if record.Duration > 0 {
		durationText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("⏱ %d minutes played", record.Duration), true, false)
		blocks = append(blocks, slack.NewContextBlock("", durationText))
	}

	return slack.NewBlockMessage(blocks...)
}

// resultLine names the winning pair, falling back to the raw winner
// label when the record does not carry four player names.
func resultLine(record *session.MatchRecord) string {
	if len(record.Players) < 4 {
		return string(record.Winner)
	}
	switch record.Winner {
	case session.WinnerTeamA:
		return fmt.Sprintf("%s won! 🏆", strings.Join(record.Players[:2], " & "))
	case session.WinnerTeamB:
		return fmt.Sprintf("%s won! 🏆", strings.Join(record.Players[2:4], " & "))
	default:
		return "It's a draw! 🤝"
	}
}

// formatSessionSummary creates an overview of the running session.
func (s *Notifier) formatSessionSummary(players []session.Player, history []session.MatchRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏸 Session summary 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	overviewText := fmt.Sprintf("Players: %d\nMatches played: %d", len(players), len(history))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", overviewText, false, false), nil, nil))

	if len(players) > 0 {
		ranked := append([]session.Player(nil), players...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].PlayCount > ranked[j].PlayCount
		})
		var lines []string
		for _, p := range ranked {
			lines = append(lines, fmt.Sprintf("• %s: %d games", p.Name, p.PlayCount))
		}
		gamesText := "Games played:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", gamesText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard ranks the roster by battle power using Block Kit.
func (s *Notifier) formatLeaderboard(players []session.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Battle Power Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players found.", false, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	ranked := append([]session.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BattlePower > ranked[j].BattlePower
	})

	medals := []string{"🥇", "🥈", "🥉"}
	for i, p := range ranked {
		medal := ""
		if i < len(medals) {
			medal = medals[i] + " "
		}
		text := fmt.Sprintf("%d. %s%s\n> *Battle Power*: %d\n> *Games*: %d", i+1, medal, p.Name, p.BattlePower, p.PlayCount)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
