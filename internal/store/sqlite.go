package store

import (
	"database/sql"
	"fmt"
	"sync"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed dump store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS dumps (
			doc TEXT NOT NULL,
			stage TEXT NOT NULL,
			content TEXT NOT NULL,
			seq INTEGER NOT NULL,
			PRIMARY KEY (doc, stage)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Put stores a stage dump, overwriting any previous dump for the same
// document and stage.
func (s *SQLite) Put(doc, stage, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO dumps (doc, stage, content, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM dumps WHERE doc = ?))
		ON CONFLICT(doc, stage) DO UPDATE SET content = excluded.content
	`, doc, stage, content, doc)
	return err
}

// Get retrieves a stage dump. Returns "" if not found.
func (s *SQLite) Get(doc, stage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var content string
	err := s.db.QueryRow("SELECT content FROM dumps WHERE doc = ? AND stage = ?", doc, stage).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// Stages returns the stages recorded for a document, in insertion order.
func (s *SQLite) Stages(doc string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT stage FROM dumps WHERE doc = ? ORDER BY seq", doc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stages []string
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
