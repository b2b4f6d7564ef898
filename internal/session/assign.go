package session

import "github.com/charmbracelet/log"

// Assign places a player into a specific slot. Live slots mark the
// player as playing; next-match slots stamp a fresh queue time and, if
// the player was mid-game, return them to waiting since queueing
// displaces active-court membership. Overwriting an occupied live slot
// bumps the previous occupant back to waiting. Unknown ids and
// out-of-range slots are a silent no-op.
func (s *Session) Assign(courtID int, playerID string, slot int, nextMatch bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	court := s.courtByID(courtID)
	p := s.playerByID(playerID)
	if court == nil || p == nil || slot < 0 || slot > 3 {
		return nil
	}

	if nextMatch {
		court.NextMatch[slot] = QueueSlot{PlayerID: p.ID, QueuedAt: s.clock()}
		if p.Status == StatusPlaying {
			p.Status = StatusWaiting
		}
	} else {
		if prev := court.Players[slot]; prev != "" && prev != p.ID {
			if bumped := s.playerByID(prev); bumped != nil {
				bumped.Status = StatusWaiting
			}
		}
		court.Players[slot] = p.ID
		p.Status = StatusPlaying
		court.refreshStatus()
	}

	log.Debug("Assigned player to slot", "court", courtID, "player", p.Name, "slot", slot, "next_match", nextMatch)
	s.markChanged()
	return nil
}

// RemoveFromCourt clears a slot. Removing from a live slot reverts the
// player to waiting unless resetStatus is false (used when the player
// is being relocated rather than benched). Queue removals never touch
// roster status, queued players are not playing.
func (s *Session) RemoveFromCourt(courtID, slot int, nextMatch, resetStatus bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFromCourtLocked(courtID, slot, nextMatch, resetStatus)
	s.markChanged()
	return nil
}

func (s *Session) removeFromCourtLocked(courtID, slot int, nextMatch, resetStatus bool) {
	court := s.courtByID(courtID)
	if court == nil || slot < 0 || slot > 3 {
		return
	}

	if nextMatch {
		court.NextMatch[slot] = QueueSlot{}
		return
	}

	removed := court.Players[slot]
	court.Players[slot] = ""
	court.refreshStatus()
	if removed != "" && resetStatus {
		if p := s.playerByID(removed); p != nil {
			p.Status = StatusWaiting
		}
	}
}

// MoveSlot relocates the occupant of one slot into another, swapping
// any displaced occupant back into the source slot. This is the
// engine behind dragging a player between courts and queues. Vacant
// sources and out-of-range indexes are a silent no-op.
func (s *Session) MoveSlot(fromCourtID, fromSlot int, fromNext bool, toCourtID, toSlot int, toNext bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.courtByID(fromCourtID)
	dst := s.courtByID(toCourtID)
	if src == nil || dst == nil || fromSlot < 0 || fromSlot > 3 || toSlot < 0 || toSlot > 3 {
		return nil
	}
	if src == dst && fromSlot == toSlot && fromNext == toNext {
		return nil
	}

	var movingID string
	if fromNext {
		movingID = src.NextMatch[fromSlot].PlayerID
	} else {
		movingID = src.Players[fromSlot]
	}
	if movingID == "" {
		return nil
	}

	var displacedID string
	if toNext {
		displacedID = dst.NextMatch[toSlot].PlayerID
	} else {
		displacedID = dst.Players[toSlot]
	}

	// Vacate the source, then swap the displaced occupant into it.
	if fromNext {
		src.NextMatch[fromSlot] = QueueSlot{}
		if displacedID != "" {
			src.NextMatch[fromSlot] = QueueSlot{PlayerID: displacedID, QueuedAt: s.clock()}
		}
	} else {
		src.Players[fromSlot] = ""
		if displacedID != "" {
			src.Players[fromSlot] = displacedID
		}
	}

	if toNext {
		dst.NextMatch[toSlot] = QueueSlot{PlayerID: movingID, QueuedAt: s.clock()}
	} else {
		dst.Players[toSlot] = movingID
	}

	src.refreshStatus()
	dst.refreshStatus()
	s.refreshRosterStatuses()

	log.Debug("Moved slot occupant", "player", movingID, "from_court", fromCourtID, "to_court", toCourtID)
	s.markChanged()
	return nil
}

// AddCourt appends a new empty court with the next free id.
func (s *Session) AddCourt() Court {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := 1
	for _, c := range s.courts {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	court := newCourt(id)
	s.courts = append(s.courts, court)
	log.Info("Added court", "id", id)
	s.markChanged()
	return *court
}

// RemoveCourt destroys the last court. The court must be fully vacant,
// live slots and queue slots both.
func (s *Session) RemoveCourt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.courts) == 0 {
		return ErrNoCourts
	}
	last := s.courts[len(s.courts)-1]
	if last.OccupantCount() > 0 {
		return ErrCourtOccupied
	}
	for _, q := range last.NextMatch {
		if q.PlayerID != "" {
			return ErrCourtOccupied
		}
	}

	s.courts = s.courts[:len(s.courts)-1]
	log.Info("Removed court", "id", last.ID)
	s.markChanged()
	return nil
}

// ClearCourts vacates every live slot on every court and returns the
// seated players to waiting. Queue slots are untouched.
func (s *Session) ClearCourts() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courts {
		for i, id := range c.Players {
			if id == "" {
				continue
			}
			if p := s.playerByID(id); p != nil {
				p.Status = StatusWaiting
			}
			c.Players[i] = ""
		}
		c.Status = CourtEmpty
		c.StartedAt = nil
	}
	log.Info("Cleared all courts")
	s.markChanged()
}
