package session

import (
	"sync"
	"time"
)

// PlayerLevel is the coarse skill tier of a player. Battle power is the
// fine-grained rating used for balancing; the level is informational.
type PlayerLevel string

const (
	LevelNew          PlayerLevel = "new"
	LevelBeginner     PlayerLevel = "beginner"
	LevelIntermediate PlayerLevel = "intermediate"
	LevelAdvanced     PlayerLevel = "advanced"
	LevelPro          PlayerLevel = "pro"
)

// ParseLevel normalizes a stored level value. Unrecognized values
// default to intermediate.
func ParseLevel(s string) PlayerLevel {
	switch PlayerLevel(s) {
	case LevelNew, LevelBeginner, LevelIntermediate, LevelAdvanced, LevelPro:
		return PlayerLevel(s)
	default:
		return LevelIntermediate
	}
}

// Rank orders levels from weakest (0) to strongest.
func (l PlayerLevel) Rank() int {
	switch l {
	case LevelNew:
		return 0
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelPro:
		return 4
	default:
		return 2
	}
}

// PlayerStatus is the roster-side state of a player.
type PlayerStatus string

const (
	StatusWaiting PlayerStatus = "waiting"
	StatusPlaying PlayerStatus = "playing"
	StatusResting PlayerStatus = "resting"
	// StatusFixed pins a player out of the auto-assign pool.
	StatusFixed PlayerStatus = "fixed"
)

// Player is a roster entry. Court slots reference players by ID only,
// so a player has exactly one authoritative record.
type Player struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Level       PlayerLevel  `json:"level"`
	BattlePower int          `json:"battle_power"`
	PlayCount   int          `json:"play_count"`
	Status      PlayerStatus `json:"status"`
	PartnerID   string       `json:"partner_id,omitempty"`
	OpponentID  string       `json:"opponent_id,omitempty"`
}

// DefaultBattlePower is assigned to players created without a rating.
const DefaultBattlePower = 1500

// CourtStatus is the state of a court. Active requires all four live
// slots filled and an explicit start; empty requires all four vacant;
// ready covers everything in between, including full but not started.
type CourtStatus string

const (
	CourtEmpty  CourtStatus = "empty"
	CourtReady  CourtStatus = "ready"
	CourtActive CourtStatus = "active"
)

// QueueSlot is one next-match staging slot. QueuedAt decides promotion
// priority across all courts.
type QueueSlot struct {
	PlayerID string    `json:"player_id,omitempty"`
	QueuedAt time.Time `json:"queued_at,omitempty"`
}

// Court holds four live slots and four next-match slots. Slot positions
// 0-1 are team A, 2-3 are team B. An empty string means a vacant slot.
type Court struct {
	ID        int          `json:"id"`
	Players   [4]string    `json:"players"`
	NextMatch [4]QueueSlot `json:"next_match"`
	Status    CourtStatus  `json:"status"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
}

// Winner identifies the winning side of a finished match.
type Winner string

const (
	WinnerTeamA Winner = "Team A"
	WinnerTeamB Winner = "Team B"
	WinnerDraw  Winner = "Draw"
)

// MatchRecord is one appended history entry. Player names and ids keep
// the court slot order of the finished match.
type MatchRecord struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Time      string   `json:"time"` // HH:MM
	Duration  int      `json:"duration_mins"`
	CourtID   int      `json:"court_id"`
	Players   []string `json:"players"`
	PlayerIDs []string `json:"player_ids"`
	Score     string   `json:"score"`
	Winner    Winner   `json:"winner"`
}

// Aggregate is a full, self-contained copy of the session state. It is
// what the persistence layer loads and saves, always as a whole.
type Aggregate struct {
	Players []Player      `json:"players"`
	Courts  []Court       `json:"courts"`
	History []MatchRecord `json:"history"`
}

// DefaultCourtCount is the number of courts a fresh session starts with.
const DefaultCourtCount = 3

// Session is the authoritative in-memory aggregate: roster, court pool
// and match history. Every public operation takes the write lock,
// computes the complete new state and commits it before returning, so
// observers only ever see pre- or post-operation snapshots.
type Session struct {
	mu      sync.RWMutex
	players []*Player
	courts  []*Court
	history []MatchRecord

	clock    func() time.Time
	onChange func()
}
