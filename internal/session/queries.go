package session

import "sort"

// Players returns a copy of the roster.
func (s *Session) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	return out
}

// Courts returns a copy of the court pool.
func (s *Session) Courts() []Court {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Court, 0, len(s.courts))
	for _, c := range s.courts {
		out = append(out, *c)
	}
	return out
}

// Player returns a copy of one roster entry.
func (s *Session) Player(id string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.playerByID(id); p != nil {
		return *p, true
	}
	return Player{}, false
}

// QueueRank returns the 1-based position of a player's queue entry on
// the given court among all of that player's pending queue entries
// across every court, ordered by queue time. Returns 0 when the player
// is not queued on that court.
func (s *Session) QueueRank(playerID string, courtID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		courtID int
		slot    QueueSlot
	}
	var all []entry
	for _, c := range s.courts {
		for _, q := range c.NextMatch {
			if q.PlayerID == playerID {
				all = append(all, entry{courtID: c.ID, slot: q})
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].slot.QueuedAt.Before(all[j].slot.QueuedAt)
	})

	for i, e := range all {
		if e.courtID == courtID {
			return i + 1
		}
	}
	return 0
}

// CounterpartStats aggregates matches shared with one named partner or
// opponent.
type CounterpartStats struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Wins    int    `json:"wins"`
	WinRate int    `json:"win_rate"` // percent, rounded
}

// StatsSet is a win/loss aggregate over a set of match records.
type StatsSet struct {
	TotalGames int                `json:"total_games"`
	Wins       int                `json:"wins"`
	WinRate    int                `json:"win_rate"` // percent, rounded
	Partners   []CounterpartStats `json:"partners"`
	Opponents  []CounterpartStats `json:"opponents"`
}

// DailyStats counts one day's games and wins.
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Wins  int    `json:"wins"`
}

// PlayerStatsReport is the full derived statistics view for one player.
type PlayerStatsReport struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Total      StatsSet     `json:"total"`
	Today      StatsSet     `json:"today"`
	Daily      []DailyStats `json:"daily"`
}

// PlayerStats derives a player's win/loss record from the match
// history: overall and today's aggregates, grouped per partner and per
// opponent by counterpart name, plus a per-day tally. Returns false for
// unknown players.
func (s *Session) PlayerStats(playerID string) (PlayerStatsReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.playerByID(playerID)
	if p == nil {
		return PlayerStatsReport{}, false
	}

	var mine []MatchRecord
	for _, r := range s.history {
		for _, id := range r.PlayerIDs {
			if id == playerID {
				mine = append(mine, r)
				break
			}
		}
	}

	today := s.clock().Format("2006-01-02")
	var todays []MatchRecord
	for _, r := range mine {
		if r.Date == today {
			todays = append(todays, r)
		}
	}

	daily := map[string]*DailyStats{}
	for _, r := range mine {
		d, ok := daily[r.Date]
		if !ok {
			d = &DailyStats{Date: r.Date}
			daily[r.Date] = d
		}
		d.Count++
		if recordWon(r, playerID) {
			d.Wins++
		}
	}
	dailyList := make([]DailyStats, 0, len(daily))
	for _, d := range daily {
		dailyList = append(dailyList, *d)
	}
	sort.Slice(dailyList, func(i, j int) bool {
		return dailyList[i].Date > dailyList[j].Date
	})

	return PlayerStatsReport{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Total:      aggregateStats(mine, playerID),
		Today:      aggregateStats(todays, playerID),
		Daily:      dailyList,
	}, true
}

// recordWon reports whether the player's team won the recorded match.
// Slot order is preserved in records: indexes 0-1 are team A.
func recordWon(r MatchRecord, playerID string) bool {
	idx := -1
	for i, id := range r.PlayerIDs {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if idx < 2 {
		return r.Winner == WinnerTeamA
	}
	return r.Winner == WinnerTeamB
}

func aggregateStats(records []MatchRecord, playerID string) StatsSet {
	set := StatsSet{TotalGames: len(records)}
	partners := map[string]*CounterpartStats{}
	opponents := map[string]*CounterpartStats{}

	for _, r := range records {
		idx := -1
		for i, id := range r.PlayerIDs {
			if id == playerID {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		won := recordWon(r, playerID)
		if won {
			set.Wins++
		}

		partnerIdx := map[int]int{0: 1, 1: 0, 2: 3, 3: 2}[idx]
		oppIdx := []int{2, 3}
		if idx >= 2 {
			oppIdx = []int{0, 1}
		}

		if partnerIdx < len(r.Players) {
			bump(partners, r.Players[partnerIdx], won)
		}
		for _, i := range oppIdx {
			if i < len(r.Players) {
				bump(opponents, r.Players[i], won)
			}
		}
	}

	if set.TotalGames > 0 {
		set.WinRate = roundPercent(set.Wins, set.TotalGames)
	}
	set.Partners = sortedCounterparts(partners)
	set.Opponents = sortedCounterparts(opponents)
	return set
}

func bump(m map[string]*CounterpartStats, name string, won bool) {
	if name == "" {
		return
	}
	c, ok := m[name]
	if !ok {
		c = &CounterpartStats{Name: name}
		m[name] = c
	}
	c.Count++
	if won {
		c.Wins++
	}
}

func sortedCounterparts(m map[string]*CounterpartStats) []CounterpartStats {
	out := make([]CounterpartStats, 0, len(m))
	for _, c := range m {
		if c.Count > 0 {
			c.WinRate = roundPercent(c.Wins, c.Count)
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func roundPercent(part, whole int) int {
	return int(float64(part)/float64(whole)*100 + 0.5)
}
