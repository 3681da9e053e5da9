/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package storage keeps the working configurations and the export history
// in a sqlite database under ~/.config/poshcraft.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adaryorg/poshcraft/internal/ids"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when an ID prefix matches more than one entry.
var ErrAmbiguous = errors.New("ambiguous id prefix")

// Entry is one recorded export.
type Entry struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	Action      string    `json:"action"` // "download", "copy" or "stdout"
	Target      string    `json:"target"` // file path for downloads
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	ThreatLevel string    `json:"threat_level"` // "none", "low", "medium", "high"
}

// EntryMeta is an Entry without its body, for listings.
type EntryMeta struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	Action      string    `json:"action"`
	Target      string    `json:"target"`
	Size        int       `json:"size"`
	Timestamp   time.Time `json:"timestamp"`
	ThreatLevel string    `json:"threat_level"`
}

// Meta strips the body from e.
func (e *Entry) Meta() EntryMeta {
	return EntryMeta{
		ID:          e.ID,
		Format:      e.Format,
		Action:      e.Action,
		Target:      e.Target,
		Size:        len(e.Content),
		Timestamp:   e.Timestamp,
		ThreatLevel: e.ThreatLevel,
	}
}

type Storage struct {
	db         *sql.DB
	maxEntries int
	ids        ids.Generator
}

// DefaultPath returns ~/.config/poshcraft/poshcraft.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "poshcraft", "poshcraft.db"), nil
}

// New opens the database at DefaultPath.
func New(maxEntries int) (*Storage, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path, maxEntries)
}

// Open opens or creates the database at path. History keeps at most
// maxEntries exports.
func Open(path string, maxEntries int) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps writers from tripping over SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if maxEntries <= 0 {
		maxEntries = 1000
	}
	s := &Storage{db: db, maxEntries: maxEntries, ids: ids.NewUUID()}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Storage) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS workspaces (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			updated DATETIME NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			action TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// columns added after the first release
	s.db.Exec("ALTER TABLE exports ADD COLUMN target TEXT DEFAULT ''")
	s.db.Exec("ALTER TABLE exports ADD COLUMN threat_level TEXT DEFAULT 'none'")
	return nil
}

// SaveWorkspace stores the document of a named working configuration.
func (s *Storage) SaveWorkspace(name, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO workspaces (name, content, updated) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated = excluded.updated
	`, name, content, time.Now())
	return err
}

// LoadWorkspace returns the stored document, or ErrNotFound.
func (s *Storage) LoadWorkspace(name string) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM workspaces WHERE name = ?", name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("workspace %q: %w", name, ErrNotFound)
	}
	return content, err
}

// DeleteWorkspace removes a working configuration.
func (s *Storage) DeleteWorkspace(name string) error {
	_, err := s.db.Exec("DELETE FROM workspaces WHERE name = ?", name)
	return err
}

// Workspaces lists the stored names, most recently updated first.
func (s *Storage) Workspaces() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM workspaces ORDER BY updated DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Record adds an export to the history and returns its ID. An export whose
// format and trimmed content match an existing one only refreshes that
// entry's timestamp.
func (s *Storage) Record(e Entry) (string, error) {
	if strings.TrimSpace(e.Content) == "" {
		return "", nil
	}
	if e.ThreatLevel == "" {
		e.ThreatLevel = "none"
	}

	var existingID string
	err := s.db.QueryRow(
		"SELECT id FROM exports WHERE TRIM(content) = ? AND format = ? LIMIT 1",
		strings.TrimSpace(e.Content), e.Format,
	).Scan(&existingID)
	if err == nil {
		_, err := s.db.Exec(
			"UPDATE exports SET timestamp = ?, action = ?, target = ? WHERE id = ?",
			time.Now(), e.Action, e.Target, existingID,
		)
		return existingID, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id := s.ids.Next()
	_, err = s.db.Exec(
		"INSERT INTO exports (id, format, action, target, content, timestamp, threat_level) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, e.Format, e.Action, e.Target, e.Content, time.Now(), e.ThreatLevel,
	)
	if err != nil {
		return "", err
	}

	// Keep only the latest maxEntries exports
	_, err = s.db.Exec(`
		DELETE FROM exports
		WHERE id NOT IN (
			SELECT id FROM exports
			ORDER BY timestamp DESC, rowid DESC
			LIMIT ?
		)
	`, s.maxEntries)
	return id, err
}

// List returns history metadata, newest first.
func (s *Storage) List() []EntryMeta {
	rows, err := s.db.Query(
		"SELECT id, format, action, target, LENGTH(content), timestamp, threat_level FROM exports ORDER BY timestamp DESC, rowid DESC",
	)
	if err != nil {
		return []EntryMeta{}
	}
	defer rows.Close()

	var items []EntryMeta
	for rows.Next() {
		var m EntryMeta
		if err := rows.Scan(&m.ID, &m.Format, &m.Action, &m.Target, &m.Size, &m.Timestamp, &m.ThreatLevel); err != nil {
			continue
		}
		items = append(items, m)
	}
	return items
}

// Count returns the number of history entries.
func (s *Storage) Count() int {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&count); err != nil {
		return 0
	}
	return count
}

// Get returns the entry whose ID is id or, failing that, starts with id.
func (s *Storage) Get(id string) (*Entry, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	var e Entry
	err = s.db.QueryRow(
		"SELECT id, format, action, target, content, timestamp, threat_level FROM exports WHERE id = ?", resolved,
	).Scan(&e.ID, &e.Format, &e.Action, &e.Target, &e.Content, &e.Timestamp, &e.ThreatLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Content returns only the body of an entry.
func (s *Storage) Content(id string) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM exports WHERE id = ?", id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("export %s: %w", id, ErrNotFound)
	}
	return content, err
}

// Resolve expands a unique ID prefix to the full ID.
func (s *Storage) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}
	var exact string
	err := s.db.QueryRow("SELECT id FROM exports WHERE id = ?", prefix).Scan(&exact)
	if err == nil {
		return exact, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	rows, err := s.db.Query("SELECT id FROM exports WHERE id LIKE ? ESCAPE '\\' LIMIT 2", escapeLike(prefix)+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		matches = append(matches, id)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("export %s: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("export %s: %w", prefix, ErrAmbiguous)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Delete removes one history entry.
func (s *Storage) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM exports WHERE id = ?", id)
	return err
}

// Clear empties the history.
func (s *Storage) Clear() error {
	_, err := s.db.Exec("DELETE FROM exports")
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}
