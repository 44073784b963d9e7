// Package storage provides SQLite-based persistence for play history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rc01/internal/config"
)

// Exit reasons recorded for a run.
const (
	ExitClosed = "closed" // window or terminal closed by the player
	ExitError  = "error"  // script or display failure
	ExitFrames = "frames" // frame budget reached (headless)
)

// ExitReasonFor classifies how a run ended. A failure wins over a used up
// frame budget.
func ExitReasonFor(failed, exhausted bool) string {
	switch {
	case failed:
		return ExitError
	case exhausted:
		return ExitFrames
	default:
		return ExitClosed
	}
}

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded play session.
type Run struct {
	ID         int64
	CartID     string
	Backend    string
	Frames     int64
	Duration   time.Duration
	ExitReason string
	Error      string // Message of the fatal error, if any
	CreatedAt  time.Time
}

// CartStats contains aggregated statistics for a cartridge.
type CartStats struct {
	CartID     string
	Runs       int
	Frames     int64
	TotalTime  time.Duration
	Errors     int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cart_id TEXT NOT NULL,
			backend TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			exit_reason TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_cart_id ON runs(cart_id);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (cart_id, backend, frames, duration_ms, exit_reason, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.CartID, r.Backend, r.Frames, r.Duration.Milliseconds(), r.ExitReason, r.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty cartID
// matches every cartridge.
func (s *Store) RecentRuns(cartID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, cart_id, backend, frames, duration_ms, exit_reason, error, created_at
		 FROM runs
		 WHERE ? = '' OR cart_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		cartID, cartID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.CartID, &r.Backend, &r.Frames, &durationMS,
			&r.ExitReason, &r.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Stats returns aggregated statistics for every cartridge that was run.
func (s *Store) Stats() (map[string]*CartStats, error) {
	rows, err := s.db.Query(
		`SELECT cart_id, COUNT(*), SUM(frames), SUM(duration_ms),
		        SUM(CASE WHEN exit_reason = ? THEN 1 ELSE 0 END), MAX(created_at)
		 FROM runs
		 GROUP BY cart_id`,
		ExitError,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get cart stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*CartStats)
	for rows.Next() {
		var cs CartStats
		var totalMS int64
		var lastPlayed any
		if err := rows.Scan(&cs.CartID, &cs.Runs, &cs.Frames, &totalMS, &cs.Errors, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		cs.TotalTime = time.Duration(totalMS) * time.Millisecond
		cs.LastPlayed = parseTime(lastPlayed)
		stats[cs.CartID] = &cs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes the history of one cartridge, or of all when cartID is empty.
func (s *Store) ClearRuns(cartID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR cart_id = ?", cartID, cartID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
