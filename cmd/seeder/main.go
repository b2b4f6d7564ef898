package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	id          string
	name        string
	level       string
	battlePower int
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	dummyPlayers := []seedPlayer{
		{id: "player-1", name: "Seeder Player A", level: "advanced", battlePower: 1800},
		{id: "player-2", name: "Seeder Player B", level: "intermediate", battlePower: 1400},
		{id: "player-3", name: "Seeder Player C", level: "pro", battlePower: 2100},
		{id: "player-4", name: "Seeder Player D", level: "beginner", battlePower: 1100},
	}

	for i, p := range dummyPlayers {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO players (id, name, level, battle_power, play_count, status, position) VALUES (?, ?, ?, ?, 0, 'waiting', ?)",
			p.id, p.name, p.level, p.battlePower, i,
		)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	names := make([]string, len(dummyPlayers))
	ids := make([]string, len(dummyPlayers))
	for i, p := range dummyPlayers {
		names[i] = p.name
		ids[i] = p.id
	}
	namesBlob, _ := json.Marshal(names)
	idsBlob, _ := json.Marshal(ids)

	const batchSize = 100 // Insert 100 records at a time
	const numRecords = 10000

	log.Info("Preparing to insert dummy match history...", "total", numRecords, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	winners := []string{"Team A", "Team B", "Draw"}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*10) // 10 columns per record

	for i := 0; i < numRecords; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		scoreA := rand.Intn(31)
		scoreB := rand.Intn(31)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			matchTime.Format("2006-01-02"),
			matchTime.Format("15:04"),
			15+rand.Intn(30),
			1+rand.Intn(4),
			namesBlob,
			idsBlob,
			fmt.Sprintf("%d : %d", scoreA, scoreB),
			winners[rand.Intn(len(winners))],
			i,
		)

		if (i+1)%batchSize == 0 || (i+1) == numRecords {
			stmt := fmt.Sprintf(
				"INSERT INTO match_history (id, match_date, match_time, duration_mins, court_id, players_json, player_ids_json, score, winner, position) VALUES %s",
				strings.Join(valueStrings, ","),
			)
			if _, err := tx.Exec(stmt, valueArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to insert batch: %s", err)
			}
			valueStrings = valueStrings[:0]
			valueArgs = valueArgs[:0]
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	log.Info("Seeding complete.", "records", numRecords, "duration", time.Since(startTime))
}
