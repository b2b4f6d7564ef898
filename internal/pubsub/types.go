package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchFinished EventType = "match-finished"
	EventSessionSaved  EventType = "session-saved"
)

// MatchFinishedEvent is the payload published when a match is recorded.
type MatchFinishedEvent struct {
	RecordID string   `msgpack:"record_id"`
	CourtID  int      `msgpack:"court_id"`
	Players  []string `msgpack:"players"`
	Score    string   `msgpack:"score"`
	Winner   string   `msgpack:"winner"`
}

// SessionSavedEvent is the payload published after a snapshot write.
type SessionSavedEvent struct {
	Players int `msgpack:"players"`
	Courts  int `msgpack:"courts"`
	History int `msgpack:"history"`
}
