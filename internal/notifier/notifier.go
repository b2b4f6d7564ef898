package notifier

import "github.com/ycchuang/smashqueue/internal/session"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished matches
	SendResultNotification(record *session.MatchRecord, dryRun bool) error
	// For an on-demand overview of the running session
	SendSessionSummary(players []session.Player, history []session.MatchRecord, dryRun bool) error
	// For ranking the roster by rating
	SendLeaderboard(players []session.Player, dryRun bool) error
}
