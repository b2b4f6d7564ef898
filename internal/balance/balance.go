package balance

import "sort"

// Candidate is the minimal view of a player the balancer needs.
// PartnerID and OpponentID are hard constraints: a bound partner must
// end up on the same team, a bound opponent on the opposing team.
type Candidate struct {
	ID          string
	BattlePower int
	PartnerID   string
	OpponentID  string
}

// Split is a doubles pairing of four candidates.
type Split struct {
	TeamA [2]Candidate
	TeamB [2]Candidate
}

// Slots returns the split in court slot order: positions 0-1 are team A,
// positions 2-3 are team B.
func (s Split) Slots() [4]Candidate {
	return [4]Candidate{s.TeamA[0], s.TeamA[1], s.TeamB[0], s.TeamB[1]}
}

func (s Split) diff() int {
	a := s.TeamA[0].BattlePower + s.TeamA[1].BattlePower
	b := s.TeamB[0].BattlePower + s.TeamB[1].BattlePower
	if a > b {
		return a - b
	}
	return b - a
}

// Balance splits exactly four players into the fairest two teams.
//
// The four players are ranked by battle power (p1 strongest, p4 weakest)
// and only three pairings exist: p1+p4, p1+p3, p1+p2. Pairings that
// violate a partner or opponent binding among the four are discarded;
// when the bindings contradict each other and no pairing survives, all
// three are considered again unconstrained. Among the remaining
// pairings the one with the smallest battle power difference wins, ties
// going to the earliest enumerated (p1+p4 first).
func Balance(group [4]Candidate) Split {
	sorted := group[:]
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BattlePower > sorted[j].BattlePower
	})
	p1, p2, p3, p4 := sorted[0], sorted[1], sorted[2], sorted[3]

	combos := []Split{
		{TeamA: [2]Candidate{p1, p4}, TeamB: [2]Candidate{p2, p3}},
		{TeamA: [2]Candidate{p1, p3}, TeamB: [2]Candidate{p2, p4}},
		{TeamA: [2]Candidate{p1, p2}, TeamB: [2]Candidate{p3, p4}},
	}

	var valid []Split
	for _, c := range combos {
		if satisfiesBindings(c, group) {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		valid = combos
	}

	best := valid[0]
	for _, c := range valid[1:] {
		if c.diff() < best.diff() {
			best = c
		}
	}
	return best
}

// satisfiesBindings checks every partner/opponent edge among the four
// from both teams' perspective. Edges pointing outside the group are
// ignored.
func satisfiesBindings(s Split, group [4]Candidate) bool {
	inGroup := make(map[string]bool, 4)
	for _, c := range group {
		inGroup[c.ID] = true
	}
	return teamOK(s.TeamA, s.TeamB, inGroup) && teamOK(s.TeamB, s.TeamA, inGroup)
}

func teamOK(team, opposing [2]Candidate, inGroup map[string]bool) bool {
	for _, p := range team {
		if p.PartnerID != "" && inGroup[p.PartnerID] {
			if team[0].ID != p.PartnerID && team[1].ID != p.PartnerID {
				return false
			}
		}
		if p.OpponentID != "" && inGroup[p.OpponentID] {
			if opposing[0].ID != p.OpponentID && opposing[1].ID != p.OpponentID {
				return false
			}
		}
	}
	return true
}
