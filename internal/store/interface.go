package store

import "github.com/ycchuang/smashqueue/internal/session"

// SnapshotStore persists the session aggregate as a whole. Load reports
// found=false when the database holds no snapshot yet, so callers can
// tell a fresh install from an empty session.
type SnapshotStore interface {
	Load() (session.Aggregate, bool, error)
	Save(agg session.Aggregate) error
	Clear() error
}
