package session

import "github.com/charmbracelet/log"

// BindKind selects which relation a binding creates.
type BindKind string

const (
	BindPartner  BindKind = "partner"
	BindOpponent BindKind = "opponent"
)

// Bind creates a mutual partner or opponent relation between two
// players. Relations are exclusive 1:1 per kind: any previous relation
// either side holds with a third player is cleared, reciprocally, and a
// partner edge between a pair replaces an opponent edge between that
// same pair (and vice versa). Self-binds and unknown ids are a silent
// no-op.
func (s *Session) Bind(sourceID, targetID string, kind BindKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sourceID == targetID {
		return nil
	}
	source := s.playerByID(sourceID)
	target := s.playerByID(targetID)
	if source == nil || target == nil {
		return nil
	}

	switch kind {
	case BindPartner:
		// Partners cannot also be opponents.
		if source.OpponentID == target.ID {
			source.OpponentID = ""
			target.OpponentID = ""
		}
		if old := s.playerByID(source.PartnerID); old != nil {
			old.PartnerID = ""
		}
		if old := s.playerByID(target.PartnerID); old != nil {
			old.PartnerID = ""
		}
		source.PartnerID = target.ID
		target.PartnerID = source.ID
	case BindOpponent:
		if source.PartnerID == target.ID {
			source.PartnerID = ""
			target.PartnerID = ""
		}
		if old := s.playerByID(source.OpponentID); old != nil {
			old.OpponentID = ""
		}
		if old := s.playerByID(target.OpponentID); old != nil {
			old.OpponentID = ""
		}
		source.OpponentID = target.ID
		target.OpponentID = source.ID
	default:
		return nil
	}

	log.Info("Bound players", "source", source.Name, "target", target.Name, "kind", kind)
	s.markChanged()
	return nil
}

// Unbind clears both relations of a player, reciprocally. No-op if
// neither edge is set or the id is unknown.
func (s *Session) Unbind(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(playerID)
	if p == nil {
		return nil
	}
	if p.PartnerID == "" && p.OpponentID == "" {
		return nil
	}
	s.unbindLocked(p)
	log.Info("Unbound player", "player", p.Name)
	s.markChanged()
	return nil
}

func (s *Session) unbindLocked(p *Player) {
	if p.PartnerID != "" {
		if partner := s.playerByID(p.PartnerID); partner != nil {
			partner.PartnerID = ""
		}
		p.PartnerID = ""
	}
	if p.OpponentID != "" {
		if opp := s.playerByID(p.OpponentID); opp != nil {
			opp.OpponentID = ""
		}
		p.OpponentID = ""
	}
}
