// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Mode names the kind of game a result comes from.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	ID        int64
	SessionID string
	Mode      Mode
	Seed      uint64
	Score     uint64
	Lines     uint32
	Level     uint32
	Ticks     uint64 // Simulated ticks until game over
	CreatedAt time.Time
}

// Summary aggregates all results of one mode.
type Summary struct {
	Games      int
	BestScore  uint64
	TotalLines uint64
	TotalTicks uint64
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
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(mode, score DESC);
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

// SaveResult records a finished game. A session is saved at most once;
// saving it again returns the existing ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	// SQLite integers are signed 64-bit; seeds use the full unsigned range.
	_, err := s.db.Exec(
		`INSERT INTO results (session_id, mode, seed, score, lines, level, ticks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		r.SessionID, string(r.Mode), int64(r.Seed), int64(r.Score), r.Lines, r.Level, int64(r.Ticks),
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	var id int64
	if err := s.db.QueryRow("SELECT id FROM results WHERE session_id = ?", r.SessionID).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopResults retrieves the top N results for the given mode.
// Results are ordered by score descending, older results first on ties.
func (s *Store) TopResults(mode Mode, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, mode, seed, score, lines, level, ticks, created_at
		 FROM results
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		string(mode), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// RecentResults retrieves the latest N results of any mode.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, mode, seed, score, lines, level, ticks, created_at
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		var mode string
		var seed, score, ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SessionID, &mode, &seed, &score, &r.Lines, &r.Level, &ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Mode = Mode(mode)
		r.Seed, r.Score, r.Ticks = uint64(seed), uint64(score), uint64(ticks)

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse(timeLayout, v); err == nil {
				r.CreatedAt = parsed
			}
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// BestScore returns the highest score for the given mode.
// Returns 0 if no results exist.
func (s *Store) BestScore(mode Mode) (uint64, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE mode = ?",
		string(mode),
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return uint64(score.Int64), nil
}

// Summary aggregates the results of the given mode.
func (s *Store) Summary(mode Mode) (Summary, error) {
	var sum Summary
	var best, lines, ticks sql.NullInt64
	err := s.db.QueryRow(
		"SELECT COUNT(*), MAX(score), SUM(lines), SUM(ticks) FROM results WHERE mode = ?",
		string(mode),
	).Scan(&sum.Games, &best, &lines, &ticks)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot query summary: %w", err)
	}
	sum.BestScore = uint64(best.Int64)
	sum.TotalLines = uint64(lines.Int64)
	sum.TotalTicks = uint64(ticks.Int64)
	return sum, nil
}

// ClearResults deletes all results for the given mode.
func (s *Store) ClearResults(mode Mode) error {
	_, err := s.db.Exec("DELETE FROM results WHERE mode = ?", string(mode))
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}
