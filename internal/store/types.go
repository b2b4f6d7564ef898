package store

import (
	"database/sql"
	"sync"
)

// store handles all database operations for session snapshots.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
