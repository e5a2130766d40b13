package coge

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDatabase persists GameData blocks as JSON rows in a SQLite file.
type SQLiteDatabase struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, creating parent
// directories as needed. ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteDatabase, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("database: create directory %s: %w", dir, err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	// A pooled :memory: connection would each see an empty database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	s := &SQLiteDatabase{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteDatabase) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS game_data (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// SaveGameData implements Database. An existing row with the same name is
// replaced.
func (s *SQLiteDatabase) SaveGameData(d *GameData) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("database: encode %q: %w", d.Name, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO game_data (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		d.Name, string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("database: save %q: %w", d.Name, err)
	}
	return nil
}

// LoadGameData implements Database. It fills d from the row named d.Name.
func (s *SQLiteDatabase) LoadGameData(d *GameData) error {
	var body string
	err := s.db.QueryRow(`SELECT body FROM game_data WHERE name = ?`, d.Name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound("saved game data", d.Name)
	}
	if err != nil {
		return fmt.Errorf("database: load %q: %w", d.Name, err)
	}
	return json.Unmarshal([]byte(body), d)
}

// SavedNames lists the names of every stored block in name order.
func (s *SQLiteDatabase) SavedNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM game_data ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("database: list: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("database: scan: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Close implements Database.
func (s *SQLiteDatabase) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
