package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/clintrovert/scopesync/pkg/types"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("project store: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("project store: wal: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			jira_url         TEXT NOT NULL DEFAULT '',
			jira_email       TEXT NOT NULL DEFAULT '',
			jira_api_token   TEXT NOT NULL DEFAULT '',
			jira_project_key TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
	`)
	if err != nil {
		return fmt.Errorf("project store: migrate: %w", err)
	}
	return nil
}

// Save inserts or updates a project. A project without an id is given one.
func (s *SQLiteStore) Save(ctx context.Context, p *types.Project) error {
	now := s.now().UTC().Truncate(time.Second)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, jira_url, jira_email, jira_api_token, jira_project_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description, jira_url=excluded.jira_url,
			jira_email=excluded.jira_email, jira_api_token=excluded.jira_api_token,
			jira_project_key=excluded.jira_project_key, updated_at=excluded.updated_at
	`, p.ID, p.Name, p.Description, p.Jira.URL, p.Jira.Email, p.Jira.APIToken, p.Jira.ProjectKey,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("project store: save: %w", err)
	}
	return nil
}

// Get returns a project by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, jira_url, jira_email, jira_api_token, jira_project_key, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("project store: get: %w", err)
	}
	return p, nil
}

// List returns every project ordered by name
func (s *SQLiteStore) List(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, jira_url, jira_email, jira_api_token, jira_project_key, created_at, updated_at
		FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("project store: list: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("project store: scan: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// Credentials returns the tracker credentials configured for a project
func (s *SQLiteStore) Credentials(ctx context.Context, projectID string) (types.JiraCredentials, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return types.JiraCredentials{}, err
	}
	return p.Jira, nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*types.Project, error) {
	var p types.Project
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Jira.URL, &p.Jira.Email, &p.Jira.APIToken,
		&p.Jira.ProjectKey, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
