package projects

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Activity is a bookable activity inside a project.
type Activity struct {
	ID   int
	Name string
}

// Project is a remote project cached locally so alias lookups and
// searches work offline.
type Project struct {
	Backend    string
	ID         int
	Name       string
	Status     string
	Activities []Activity
}

// StatusActive marks projects that can still receive entries.
const StatusActive = "active"

// Store persists the project catalogue in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	backend TEXT NOT NULL,
	id      INTEGER NOT NULL,
	name    TEXT NOT NULL,
	status  TEXT NOT NULL DEFAULT 'active',
	PRIMARY KEY (backend, id)
);
CREATE TABLE IF NOT EXISTS activities (
	backend    TEXT NOT NULL,
	project_id INTEGER NOT NULL,
	id         INTEGER NOT NULL,
	name       TEXT NOT NULL,
	PRIMARY KEY (backend, project_id, id),
	FOREIGN KEY (backend, project_id) REFERENCES projects (backend, id) ON DELETE CASCADE
);
`

// Open opens (or creates) the store at the given path. ":memory:" gives
// an in-memory database for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the cached catalogue of one backend for the given
// projects in a single transaction, so a failed refresh never leaves a
// half-updated cache.
func (s *Store) Replace(backend string, projects []Project) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM projects WHERE backend = ?", backend); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}

	for _, p := range projects {
		status := p.Status
		if status == "" {
			status = StatusActive
		}
		if _, err := tx.Exec(
			"INSERT INTO projects (backend, id, name, status) VALUES (?, ?, ?, ?)",
			backend, p.ID, p.Name, status,
		); err != nil {
			return fmt.Errorf("inserting project %d: %w", p.ID, err)
		}
		for _, a := range p.Activities {
			if _, err := tx.Exec(
				"INSERT INTO activities (backend, project_id, id, name) VALUES (?, ?, ?, ?)",
				backend, p.ID, a.ID, a.Name,
			); err != nil {
				return fmt.Errorf("inserting activity %d/%d: %w", p.ID, a.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Get returns one project with its activities.
func (s *Store) Get(backend string, id int) (*Project, error) {
	row := s.db.QueryRow(
		"SELECT backend, id, name, status FROM projects WHERE backend = ? AND id = ?",
		backend, id,
	)

	var p Project
	if err := row.Scan(&p.Backend, &p.ID, &p.Name, &p.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %d not found on backend %q", id, backend)
		}
		return nil, err
	}

	if err := s.loadActivities(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all cached projects of a backend, ordered by name.
func (s *Store) List(backend string) ([]Project, error) {
	return s.query(
		"SELECT backend, id, name, status FROM projects WHERE backend = ? ORDER BY name",
		backend,
	)
}

// Search returns the projects whose name contains the query, across all
// backends, ordered by name.
func (s *Store) Search(query string) ([]Project, error) {
	pattern := "%" + strings.ReplaceAll(query, "%", `\%`) + "%"
	return s.query(
		`SELECT backend, id, name, status FROM projects WHERE name LIKE ? ESCAPE '\' ORDER BY name`,
		pattern,
	)
}

func (s *Store) query(q string, args ...any) ([]Project, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Backend, &p.ID, &p.Name, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadActivities(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadActivities(p *Project) error {
	rows, err := s.db.Query(
		"SELECT id, name FROM activities WHERE backend = ? AND project_id = ? ORDER BY id",
		p.Backend, p.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return err
		}
		p.Activities = append(p.Activities, a)
	}
	return rows.Err()
}
