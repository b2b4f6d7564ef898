package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ycchuang/smashqueue/internal/session"
)

// New creates a new SnapshotStore backed by the given database.
func New(db *sql.DB) SnapshotStore {
	return &store{
		db: db,
	}
}

// Save replaces the persisted snapshot with the given aggregate inside
// one transaction. Position columns preserve slice order so a Load
// returns players, courts and history exactly as they were saved.
func (s *store) Save(agg session.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, table := range []string{"players", "courts", "match_history"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return err
		}
	}

	playerStmt, err := tx.Prepare(`
		INSERT INTO players (id, name, level, battle_power, play_count, status, partner_id, opponent_id, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer playerStmt.Close()

	for i, p := range agg.Players {
		_, err := playerStmt.Exec(p.ID, p.Name, string(p.Level), p.BattlePower, p.PlayCount, string(p.Status), nullable(p.PartnerID), nullable(p.OpponentID), i)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	courtStmt, err := tx.Prepare(`
		INSERT INTO courts (id, status, started_at, players_json, next_match_json, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer courtStmt.Close()

	for i, c := range agg.Courts {
		playersJSON, err := json.Marshal(c.Players)
		if err != nil {
			tx.Rollback()
			return err
		}
		nextJSON, err := json.Marshal(c.NextMatch)
		if err != nil {
			tx.Rollback()
			return err
		}
		var startedAt any
		if c.StartedAt != nil {
			startedAt = c.StartedAt.UnixNano()
		}
		_, err = courtStmt.Exec(c.ID, string(c.Status), startedAt, string(playersJSON), string(nextJSON), i)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	historyStmt, err := tx.Prepare(`
		INSERT INTO match_history (id, match_date, match_time, duration_mins, court_id, players_json, player_ids_json, score, winner, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer historyStmt.Close()

	for i, r := range agg.History {
		namesJSON, err := json.Marshal(r.Players)
		if err != nil {
			tx.Rollback()
			return err
		}
		idsJSON, err := json.Marshal(r.PlayerIDs)
		if err != nil {
			tx.Rollback()
			return err
		}
		_, err = historyStmt.Exec(r.ID, r.Date, r.Time, r.Duration, r.CourtID, string(namesJSON), string(idsJSON), r.Score, string(r.Winner), i)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Load reads the persisted snapshot. Stored levels are normalized so a
// hand-edited or legacy row cannot introduce an unknown tier.
func (s *store) Load() (session.Aggregate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var agg session.Aggregate

	rows, err := s.db.Query(`
		SELECT id, name, level, battle_power, play_count, status, partner_id, opponent_id
		FROM players ORDER BY position
	`)
	if err != nil {
		return agg, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var p session.Player
		var level, status string
		var partnerID, opponentID sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &level, &p.BattlePower, &p.PlayCount, &status, &partnerID, &opponentID); err != nil {
			return agg, false, err
		}
		p.Level = session.ParseLevel(level)
		p.Status = session.PlayerStatus(status)
		p.PartnerID = partnerID.String
		p.OpponentID = opponentID.String
		agg.Players = append(agg.Players, p)
	}
	if err := rows.Err(); err != nil {
		return agg, false, err
	}

	courtRows, err := s.db.Query(`
		SELECT id, status, started_at, players_json, next_match_json
		FROM courts ORDER BY position
	`)
	if err != nil {
		return agg, false, err
	}
	defer courtRows.Close()

	for courtRows.Next() {
		var c session.Court
		var status string
		var startedAt sql.NullInt64
		var playersJSON, nextJSON string
		if err := courtRows.Scan(&c.ID, &status, &startedAt, &playersJSON, &nextJSON); err != nil {
			return agg, false, err
		}
		c.Status = session.CourtStatus(status)
		if startedAt.Valid {
			ts := time.Unix(0, startedAt.Int64).UTC()
			c.StartedAt = &ts
		}
		if err := json.Unmarshal([]byte(playersJSON), &c.Players); err != nil {
			log.Error("Failed to unmarshal court players_json", "error", err, "court", c.ID)
		}
		if err := json.Unmarshal([]byte(nextJSON), &c.NextMatch); err != nil {
			log.Error("Failed to unmarshal court next_match_json", "error", err, "court", c.ID)
		}
		agg.Courts = append(agg.Courts, c)
	}
	if err := courtRows.Err(); err != nil {
		return agg, false, err
	}

	historyRows, err := s.db.Query(`
		SELECT id, match_date, match_time, duration_mins, court_id, players_json, player_ids_json, score, winner
		FROM match_history ORDER BY position
	`)
	if err != nil {
		return agg, false, err
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var r session.MatchRecord
		var winner, namesJSON, idsJSON string
		if err := historyRows.Scan(&r.ID, &r.Date, &r.Time, &r.Duration, &r.CourtID, &namesJSON, &idsJSON, &r.Score, &winner); err != nil {
			return agg, false, err
		}
		r.Winner = session.Winner(winner)
		if err := json.Unmarshal([]byte(namesJSON), &r.Players); err != nil {
			log.Error("Failed to unmarshal history players_json", "error", err, "record", r.ID)
		}
		if err := json.Unmarshal([]byte(idsJSON), &r.PlayerIDs); err != nil {
			log.Error("Failed to unmarshal history player_ids_json", "error", err, "record", r.ID)
		}
		agg.History = append(agg.History, r)
	}
	if err := historyRows.Err(); err != nil {
		return agg, false, err
	}

	found := len(agg.Players) > 0 || len(agg.Courts) > 0 || len(agg.History) > 0
	return agg, found, nil
}

// Clear drops the persisted snapshot entirely.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, table := range []string{"players", "courts", "match_history"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// nullable maps an empty string to NULL so optional references stay
// NULL in the schema instead of empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
