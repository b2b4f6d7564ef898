package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/ycchuang/smashqueue/internal/pubsub"
	"github.com/ycchuang/smashqueue/internal/session"
)

// respondJSON writes a JSON response body with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// respondSessionError maps a session precondition failure to a status
// code. Invalid input gets 400, violated preconditions get 409.
func respondSessionError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	if errors.Is(err, session.ErrEmptyName) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Session.Snapshot())
	}
}

func (s *Server) MetricsSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.MetricsStore.GetAll()
		if err != nil {
			log.Error("Failed to read metrics summary", "error", err)
			http.Error(w, "Failed to read metrics summary", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Session.Players())
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Level       string `json:"level"`
			BattlePower int    `json:"battle_power"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		player, err := s.Session.AddPlayer(req.Name, session.ParseLevel(req.Level), req.BattlePower)
		if err != nil {
			respondSessionError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Level       string `json:"level"`
			BattlePower int    `json:"battle_power"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.UpdatePlayer(req.ID, req.Name, session.ParseLevel(req.Level), req.BattlePower); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) RemovePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.RemovePlayer(req.ID); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) SetPlayerStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.SetPlayerStatus(req.ID, session.PlayerStatus(req.Status)); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) ImportRosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Names   []string                        `json:"names"`
			Details map[string]session.ImportDetail `json:"details"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		s.Session.ImportRoster(req.Names, req.Details)
		respondJSON(w, http.StatusOK, s.Session.Players())
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		report, ok := s.Session.PlayerStats(playerID)
		if !ok {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}

func (s *Server) QueueRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		courtID, err := strconv.Atoi(r.URL.Query().Get("courtID"))
		if err != nil {
			http.Error(w, "Invalid courtID", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"rank": s.Session.QueueRank(playerID, courtID)})
	}
}

func (s *Server) BindHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SourceID string `json:"source_id"`
			TargetID string `json:"target_id"`
			Kind     string `json:"kind"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		kind := session.BindKind(req.Kind)
		if kind != session.BindPartner && kind != session.BindOpponent {
			http.Error(w, "Invalid bind kind", http.StatusBadRequest)
			return
		}
		if err := s.Session.Bind(req.SourceID, req.TargetID, kind); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) UnbindHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.Unbind(req.PlayerID); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) AssignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourtID   int    `json:"court_id"`
			PlayerID  string `json:"player_id"`
			Slot      int    `json:"slot"`
			NextMatch bool   `json:"next_match"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.Assign(req.CourtID, req.PlayerID, req.Slot, req.NextMatch); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) RemoveFromCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourtID     int  `json:"court_id"`
			Slot        int  `json:"slot"`
			NextMatch   bool `json:"next_match"`
			ResetStatus bool `json:"reset_status"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.RemoveFromCourt(req.CourtID, req.Slot, req.NextMatch, req.ResetStatus); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) MoveSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FromCourtID int  `json:"from_court_id"`
			FromSlot    int  `json:"from_slot"`
			FromNext    bool `json:"from_next"`
			ToCourtID   int  `json:"to_court_id"`
			ToSlot      int  `json:"to_slot"`
			ToNext      bool `json:"to_next"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.MoveSlot(req.FromCourtID, req.FromSlot, req.FromNext, req.ToCourtID, req.ToSlot, req.ToNext); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) AutoAssignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filled, err := s.Session.AutoAssign()
		if err != nil {
			respondSessionError(w, err)
			return
		}

		s.Metrics.IncAutoAssignRuns()
		s.MetricsStore.Increment("auto_assign_runs")
		respondJSON(w, http.StatusOK, map[string]int{"courts_filled": filled})
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourtID int `json:"court_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.StartMatch(req.CourtID); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) FinishMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourtID int    `json:"court_id"`
			ScoreA  int    `json:"score_a"`
			ScoreB  int    `json:"score_b"`
			Winner  string `json:"winner"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		record, promoted, err := s.Session.FinishMatch(req.CourtID, req.ScoreA, req.ScoreB, session.Winner(req.Winner))
		if err != nil {
			respondSessionError(w, err)
			return
		}
		if promoted > 0 {
			s.Metrics.AddQueuePromotions(promoted)
		}
		if record == nil {
			respondJSON(w, http.StatusOK, map[string]bool{"recorded": false})
			return
		}

		s.Metrics.IncMatchesFinished()
		s.MetricsStore.Increment("matches_finished")

		event := pubsub.MatchFinishedEvent{
			RecordID: record.ID,
			CourtID:  record.CourtID,
			Players:  record.Players,
			Score:    record.Score,
			Winner:   string(record.Winner),
		}
		if err := s.pubsub.SendMessage(pubsub.EventMatchFinished, event); err != nil {
			log.Error("Failed to publish match finished event", "error", err, "record", record.ID)
		}

		respondJSON(w, http.StatusOK, record)
	}
}

func (s *Server) AddCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		court := s.Session.AddCourt()
		respondJSON(w, http.StatusOK, court)
	}
}

func (s *Server) RemoveCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Session.RemoveCourt(); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) ClearCourtsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.ClearCourts()
		w.Write([]byte("OK"))
	}
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Session.History())
	}
}

func (s *Server) UpdateMatchRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     string `json:"id"`
			ScoreA int    `json:"score_a"`
			ScoreB int    `json:"score_b"`
			Winner string `json:"winner"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.UpdateMatchRecord(req.ID, req.ScoreA, req.ScoreB, session.Winner(req.Winner)); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) DeleteMatchRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Session.DeleteMatchRecord(req.ID); err != nil {
			respondSessionError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) ClearHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.ClearHistory()
		w.Write([]byte("OK"))
	}
}

func (s *Server) ClearTodayHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.ClearTodayHistory()
		w.Write([]byte("OK"))
	}
}

func (s *Server) ResetPlayCountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.ResetPlayCounts()
		w.Write([]byte("OK"))
	}
}

// NotifyResultHandler receives a pub/sub push for a finished match and
// posts the result to Slack. The push body wraps a base64-encoded
// MessagePack payload.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		event := pubsub.MatchFinishedEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		record := s.recordForEvent(event)
		if err := s.Notifier.SendResultNotification(record, isDryRun); err != nil {
			log.Error("Failed to notify result", "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// recordForEvent resolves the full history record for a finished-match
// event, falling back to the event payload when the record has since
// been deleted.
func (s *Server) recordForEvent(event pubsub.MatchFinishedEvent) *session.MatchRecord {
	for _, r := range s.Session.History() {
		if r.ID == event.RecordID {
			rec := r
			return &rec
		}
	}
	return &session.MatchRecord{
		ID:      event.RecordID,
		CourtID: event.CourtID,
		Players: event.Players,
		Score:   event.Score,
		Winner:  session.Winner(event.Winner),
	}
}

func (s *Server) NotifySummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendSessionSummary(s.Session.Players(), s.Session.History(), isDryRun); err != nil {
			log.Error("Failed to send session summary", "error", err)
			http.Error(w, "Failed to send session summary", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendLeaderboard(s.Session.Players(), isDryRun); err != nil {
			log.Error("Failed to send leaderboard", "error", err)
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) ReloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := s.Saver.Reload()
		if err != nil {
			log.Error("Failed to reload session state", "error", err)
			http.Error(w, "Failed to reload session state", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"reloaded": found})
	}
}

func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to reset the session")
		s.Session.Reset()
		w.Write([]byte("OK"))
	}
}
