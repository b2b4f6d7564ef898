package session

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// AddPlayer creates a new waiting player. Names must be unique among
// the active roster; a non-positive battle power gets the default.
func (s *Session) AddPlayer(name string, level PlayerLevel, battlePower int) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if s.playerByName(name) != nil {
		return nil, ErrDuplicateName
	}
	if battlePower <= 0 {
		battlePower = DefaultBattlePower
	}

	p := &Player{
		ID:          uuid.New().String(),
		Name:        name,
		Level:       ParseLevel(string(level)),
		BattlePower: battlePower,
		Status:      StatusWaiting,
	}
	s.players = append(s.players, p)
	log.Info("Added player", "id", p.ID, "name", p.Name, "level", p.Level)
	s.markChanged()

	cp := *p
	return &cp, nil
}

// UpdatePlayer edits name, level and battle power of an existing
// player. Unknown ids are a silent no-op.
func (s *Session) UpdatePlayer(id, name string, level PlayerLevel, battlePower int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(id)
	if p == nil {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if other := s.playerByName(name); other != nil && other.ID != id {
		return ErrDuplicateName
	}
	if battlePower <= 0 {
		battlePower = DefaultBattlePower
	}

	p.Name = name
	p.Level = ParseLevel(string(level))
	p.BattlePower = battlePower
	log.Info("Updated player", "id", p.ID, "name", p.Name)
	s.markChanged()
	return nil
}

// RemovePlayer deletes a player from the roster. A player still seated
// on a court or holding a queue slot cannot be removed. Any bindings
// are cleared first.
func (s *Session) RemovePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(id)
	if p == nil {
		return nil
	}
	if s.seatedAnywhere(id) || s.queuedAnywhere(id) {
		return ErrPlayerOnCourt
	}

	s.unbindLocked(p)
	for i, q := range s.players {
		if q.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	log.Info("Removed player", "id", id, "name", p.Name)
	s.markChanged()
	return nil
}

// SetPlayerStatus applies the manual status toggles (waiting, resting,
// fixed). Unknown ids are a silent no-op.
func (s *Session) SetPlayerStatus(id string, status PlayerStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(id)
	if p == nil {
		return nil
	}
	p.Status = status
	s.markChanged()
	return nil
}

// ImportDetail carries the optional level and rating a sign-up sheet
// knows about a participant.
type ImportDetail struct {
	Level       PlayerLevel `json:"level"`
	BattlePower int         `json:"battle_power"`
}

// ImportRoster syncs the roster against a sign-up sheet. Existing
// players named on the sheet are kept and refreshed; unlisted players
// survive only while fixed or mid-game; everyone else on the sheet is
// created as a fresh waiting player.
func (s *Session) ImportRoster(names []string, details map[string]ImportDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listed := make(map[string]bool, len(names))
	for _, n := range names {
		listed[strings.TrimSpace(n)] = true
	}

	var next []*Player
	seen := make(map[string]bool)
	for _, p := range s.players {
		if listed[p.Name] {
			if d, ok := details[p.Name]; ok {
				if d.Level != "" {
					p.Level = ParseLevel(string(d.Level))
				}
				if d.BattlePower > 0 {
					p.BattlePower = d.BattlePower
				}
			}
			if p.Status != StatusFixed && p.Status != StatusPlaying {
				p.Status = StatusWaiting
			}
			next = append(next, p)
			seen[p.Name] = true
		} else if p.Status == StatusFixed || p.Status == StatusPlaying {
			next = append(next, p)
		}
	}

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		p := &Player{
			ID:          uuid.New().String(),
			Name:        name,
			Level:       LevelIntermediate,
			BattlePower: DefaultBattlePower,
			Status:      StatusWaiting,
		}
		if d, ok := details[name]; ok {
			if d.Level != "" {
				p.Level = ParseLevel(string(d.Level))
			}
			if d.BattlePower > 0 {
				p.BattlePower = d.BattlePower
			}
		}
		next = append(next, p)
	}

	s.players = next
	log.Info("Imported roster", "players", len(s.players))
	s.markChanged()
}

// ResetPlayCounts zeroes every player's completed-match counter.
func (s *Session) ResetPlayCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		p.PlayCount = 0
	}
	log.Info("Reset play counts")
	s.markChanged()
}
