// Package storage provides SQLite-based persistence for high scores and run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// HighScoreEntry is the best score of one stage.
type HighScoreEntry struct {
	StageID   string
	Frames    int
	UpdatedAt time.Time
}

// RunEntry represents a single finished run.
type RunEntry struct {
	ID         int64
	StageID    string
	Frames     int
	Seed       uint64
	Controller string
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			stage_id TEXT PRIMARY KEY,
			frames INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stage_id TEXT NOT NULL,
			frames INTEGER NOT NULL,
			seed TEXT NOT NULL,
			controller TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(stage_id, frames DESC);
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

// HighScore returns the best score of the stage in frames.
// Returns 0 if the stage has no score yet.
func (s *Store) HighScore(stageID string) (int, error) {
	var frames int
	err := s.db.QueryRow(
		"SELECT frames FROM high_scores WHERE stage_id = ?",
		stageID,
	).Scan(&frames)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	return frames, nil
}

// SetHighScore stores frames as the stage's best unless a better score is already stored.
func (s *Store) SetHighScore(stageID string, frames int) error {
	_, err := s.db.Exec(
		`INSERT INTO high_scores (stage_id, frames, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(stage_id) DO UPDATE SET
		   frames = excluded.frames,
		   updated_at = excluded.updated_at
		 WHERE excluded.frames > high_scores.frames`,
		stageID, frames,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save high score: %w", err)
	}
	return nil
}

// ClearHighScore deletes the stage's best score.
func (s *Store) ClearHighScore(stageID string) error {
	_, err := s.db.Exec("DELETE FROM high_scores WHERE stage_id = ?", stageID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear high score: %w", err)
	}
	return nil
}

// AllHighScores returns the best score of every stage, sorted by stage ID.
func (s *Store) AllHighScores() ([]HighScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT stage_id, frames, updated_at
		 FROM high_scores
		 ORDER BY stage_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	var entries []HighScoreEntry
	for rows.Next() {
		var e HighScoreEntry
		var updatedAt any
		if err := rows.Scan(&e.StageID, &e.Frames, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (stage_id, frames, seed, controller) VALUES (?, ?, ?, ?)",
		run.StageID, run.Frames, fmt.Sprint(run.Seed), run.Controller,
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

// TopRuns retrieves the longest N runs of the stage.
func (s *Store) TopRuns(stageID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, stage_id, frames, seed, controller, created_at
		 FROM runs
		 WHERE stage_id = ?
		 ORDER BY frames DESC
		 LIMIT ?`,
		stageID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var seed string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.StageID, &e.Frames, &seed, &e.Controller, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		fmt.Sscan(seed, &e.Seed)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// StageStats contains aggregated run statistics for a stage.
type StageStats struct {
	StageID    string
	RunsCount  int
	BestFrames int
	AvgFrames  float64
	LastPlayed time.Time
}

// GetStageStats retrieves aggregated run statistics for a stage.
func (s *Store) GetStageStats(stageID string) (*StageStats, error) {
	stats := &StageStats{StageID: stageID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(frames), 0), COALESCE(AVG(frames), 0), MAX(created_at)
		 FROM runs WHERE stage_id = ?`,
		stageID,
	).Scan(&stats.RunsCount, &stats.BestFrames, &stats.AvgFrames, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
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
