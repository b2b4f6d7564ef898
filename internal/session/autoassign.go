package session

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/ycchuang/smashqueue/internal/balance"
)

// AutoAssign fills not-full courts from the waiting pool. Candidates
// are ordered by fewest completed games first (stronger rating breaks
// ties), with bound partners and opponents pulled along so pairs travel
// through the queue together. A court is only filled when the queue can
// supply every missing slot; it is never left partially filled. Each
// filled court is balanced and left ready to start. Returns the number
// of courts filled.
func (s *Session) AutoAssign() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []*Player
	for _, p := range s.players {
		if p.Status != StatusWaiting {
			continue
		}
		if s.seatedAnywhere(p.ID) || s.queuedAnywhere(p.ID) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PlayCount != candidates[j].PlayCount {
			return candidates[i].PlayCount < candidates[j].PlayCount
		}
		return candidates[i].BattlePower > candidates[j].BattlePower
	})

	eligible := make(map[string]*Player, len(candidates))
	for _, p := range candidates {
		eligible[p.ID] = p
	}

	// Walk the priority order and pull each player's bound partner and
	// opponent in right behind them, so a binding never splits across
	// two auto-assign rounds.
	var queue []*Player
	queued := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		if queued[p.ID] {
			continue
		}
		queue = append(queue, p)
		queued[p.ID] = true

		if partner, ok := eligible[p.PartnerID]; ok && !queued[partner.ID] {
			queue = append(queue, partner)
			queued[partner.ID] = true
		}
		if opp, ok := eligible[p.OpponentID]; ok && !queued[opp.ID] {
			queue = append(queue, opp)
			queued[opp.ID] = true
		}
	}

	filled := 0
	for _, court := range s.courts {
		needed := 4 - court.OccupantCount()
		if needed == 0 || len(queue) < needed {
			continue
		}

		var group [4]string
		idx := 0
		for _, id := range court.Players {
			if id != "" {
				group[idx] = id
				idx++
			}
		}
		for _, p := range queue[:needed] {
			group[idx] = p.ID
			p.Status = StatusPlaying
			idx++
		}
		queue = queue[needed:]

		court.Players = s.balancedOrder(group)
		court.Status = CourtReady
		court.StartedAt = nil
		filled++
	}

	if filled == 0 {
		return 0, ErrNothingToFill
	}

	log.Info("Auto-assign complete", "courts_filled", filled)
	s.markChanged()
	return filled, nil
}

// balancedOrder runs the balancer over four player ids and returns them
// in court slot order. Ids that do not resolve leave the order as-is.
func (s *Session) balancedOrder(ids [4]string) [4]string {
	var group [4]balance.Candidate
	for i, id := range ids {
		p := s.playerByID(id)
		if p == nil {
			return ids
		}
		group[i] = balance.Candidate{
			ID:          p.ID,
			BattlePower: p.BattlePower,
			PartnerID:   p.PartnerID,
			OpponentID:  p.OpponentID,
		}
	}

	slots := balance.Balance(group).Slots()
	var out [4]string
	for i, c := range slots {
		out[i] = c.ID
	}
	return out
}
