package session

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// StartMatch transitions a fully seated court to active and stamps the
// start time. A court without four players cannot start.
func (s *Session) StartMatch(courtID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	court := s.courtByID(courtID)
	if court == nil {
		return nil
	}
	if court.OccupantCount() < 4 {
		return ErrCourtNotFull
	}

	now := s.clock()
	court.Status = CourtActive
	court.StartedAt = &now
	log.Info("Match started", "court", courtID)
	s.markChanged()
	return nil
}

// FinishMatch records the result of a court's match, releases its
// players, and promotes queued players onto every court left empty.
//
// The winner is the explicit override when given, otherwise the higher
// score; equal scores draw. A 0:0 result with an explicit winner is
// recorded with a descriptive label instead of a numeric score. All
// four players get their play count bumped. Queue promotion considers
// every empty court's next-match slots globally, earliest queued first,
// with each player claiming at most one slot; freshly completed
// foursomes are balanced and left ready. Finally every player's
// waiting/playing status is re-derived from court occupancy.
//
// The second return value is the number of queued players promoted.
func (s *Session) FinishMatch(courtID, scoreA, scoreB int, explicitWinner Winner) (*MatchRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	court := s.courtByID(courtID)
	if court == nil {
		return nil, 0, nil
	}

	var record *MatchRecord
	var finishers []*Player
	for _, id := range court.Players {
		if p := s.playerByID(id); p != nil {
			finishers = append(finishers, p)
		}
	}

	if len(finishers) > 0 {
		now := s.clock()
		duration := 0
		if court.StartedAt != nil {
			duration = int(now.Sub(*court.StartedAt).Minutes())
		}

		winner := WinnerDraw
		switch {
		case explicitWinner != "":
			winner = explicitWinner
		case scoreA > scoreB:
			winner = WinnerTeamA
		case scoreB > scoreA:
			winner = WinnerTeamB
		}

		score := fmt.Sprintf("%d : %d", scoreA, scoreB)
		if scoreA == 0 && scoreB == 0 && explicitWinner != "" {
			switch explicitWinner {
			case WinnerTeamA:
				score = "Team A wins"
			case WinnerTeamB:
				score = "Team B wins"
			default:
				score = "Draw"
			}
		}

		rec := MatchRecord{
			ID:       uuid.New().String(),
			Date:     now.Format("2006-01-02"),
			Time:     now.Format("15:04"),
			Duration: duration,
			CourtID:  court.ID,
			Score:    score,
			Winner:   winner,
		}
		for _, p := range finishers {
			rec.Players = append(rec.Players, p.Name)
			rec.PlayerIDs = append(rec.PlayerIDs, p.ID)
			p.PlayCount++
			p.Status = StatusWaiting
		}
		s.history = append(s.history, rec)
		record = &rec
	}

	court.Players = [4]string{}
	court.Status = CourtEmpty
	court.StartedAt = nil

	promoted := s.promoteQueues()
	s.refreshRosterStatuses()

	log.Info("Match finished", "court", courtID, "score_a", scoreA, "score_b", scoreB)
	s.markChanged()

	if record == nil {
		return nil, promoted, nil
	}
	cp := *record
	return &cp, promoted, nil
}

// queueRequest is a pending claim on a live slot, pulled from a court's
// next-match staging.
type queueRequest struct {
	court *Court
	slot  int
	entry QueueSlot
}

// promoteQueues moves queued players onto their target courts. Only
// empty courts pull from their queues; a court with residual occupants
// keeps waiting. Requests are served globally by queue time so a player
// speculatively queued on several courts lands where they queued first,
// never twice. Returns the number of players promoted.
func (s *Session) promoteQueues() int {
	busy := make(map[string]bool)
	for _, c := range s.courts {
		for _, id := range c.Players {
			if id != "" {
				busy[id] = true
			}
		}
	}

	var requests []queueRequest
	for _, c := range s.courts {
		if c.Status != CourtEmpty {
			continue
		}
		for i, q := range c.NextMatch {
			if q.PlayerID != "" {
				requests = append(requests, queueRequest{court: c, slot: i, entry: q})
			}
		}
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].entry.QueuedAt.Before(requests[j].entry.QueuedAt)
	})

	promoted := 0
	for _, req := range requests {
		if busy[req.entry.PlayerID] {
			continue
		}
		req.court.Players[req.slot] = req.entry.PlayerID
		req.court.NextMatch[req.slot] = QueueSlot{}
		busy[req.entry.PlayerID] = true
		promoted++
	}

	// A court the promotion filled completely gets balanced teams and
	// waits for an explicit start. Courts already running are left
	// alone.
	for _, c := range s.courts {
		if c.Status == CourtActive {
			continue
		}
		if c.OccupantCount() == 4 {
			c.Players = s.balancedOrder(c.Players)
			c.Status = CourtReady
		} else {
			c.refreshStatus()
		}
	}

	if promoted > 0 {
		log.Info("Promoted queued players", "count", promoted)
	}
	return promoted
}

// History returns a copy of the append-only match history.
func (s *Session) History() []MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MatchRecord, 0, len(s.history))
	for _, r := range s.history {
		cp := r
		cp.Players = append([]string(nil), r.Players...)
		cp.PlayerIDs = append([]string(nil), r.PlayerIDs...)
		out = append(out, cp)
	}
	return out
}

// UpdateMatchRecord rewrites the score of a history entry. The winner
// is recomputed from the scores unless given explicitly. Unknown ids
// are a silent no-op.
func (s *Session) UpdateMatchRecord(id string, scoreA, scoreB int, winner Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID != id {
			continue
		}
		computed := winner
		if computed == "" {
			computed = WinnerDraw
			if scoreA > scoreB {
				computed = WinnerTeamA
			} else if scoreB > scoreA {
				computed = WinnerTeamB
			}
		}
		s.history[i].Score = fmt.Sprintf("%d : %d", scoreA, scoreB)
		s.history[i].Winner = computed
		s.markChanged()
		return nil
	}
	return nil
}

// DeleteMatchRecord removes a history entry. Unknown ids are a silent
// no-op.
func (s *Session) DeleteMatchRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			s.markChanged()
			return nil
		}
	}
	return nil
}

// ClearHistory wipes the match history and zeroes every play count.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	for _, p := range s.players {
		p.PlayCount = 0
	}
	log.Info("Cleared match history")
	s.markChanged()
}

// ClearTodayHistory removes only records dated today.
func (s *Session) ClearTodayHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.clock().Format("2006-01-02")
	kept := s.history[:0]
	for _, r := range s.history {
		if r.Date != today {
			kept = append(kept, r)
		}
	}
	s.history = kept
	log.Info("Cleared today's history", "date", today)
	s.markChanged()
}
