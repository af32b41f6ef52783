// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// ProjectStore handles portfolio project database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, slug, summary, body, repo_url, demo_url,
	featured, sort_order, created_at, updated_at`

func scanProject(scanner interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Body, &p.RepoURL, &p.DemoURL,
		&p.Featured, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProjects(rows *sql.Rows) ([]models.Project, error) {
	defer rows.Close()
	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// List returns all projects ordered by sort order then title.
func (s *ProjectStore) List() ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY sort_order ASC, title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return collectProjects(rows)
}

// ListFeatured returns projects flagged for the home page.
func (s *ProjectStore) ListFeatured(limit int) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE featured = TRUE
		ORDER BY sort_order ASC, title ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured projects: %w", err)
	}
	return collectProjects(rows)
}

// FindByID retrieves a project by UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// SlugExists reports whether another project already uses the slug.
func (s *ProjectStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check project slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new project and returns it with the generated ID.
func (s *ProjectStore) Create(p *models.Project) (*models.Project, error) {
	result := &models.Project{}
	err := s.db.QueryRow(`
		INSERT INTO projects (title, slug, summary, body, repo_url, demo_url,
		                      featured, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		p.Title, p.Slug, p.Summary, p.Body, p.RepoURL, p.DemoURL,
		p.Featured, p.SortOrder,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.Summary, &result.Body,
		&result.RepoURL, &result.DemoURL, &result.Featured, &result.SortOrder,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return result, nil
}

// Update modifies an existing project.
func (s *ProjectStore) Update(p *models.Project) error {
	_, err := s.db.Exec(`
		UPDATE projects SET
			title = $1, slug = $2, summary = $3, body = $4, repo_url = $5,
			demo_url = $6, featured = $7, sort_order = $8, updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.Summary, p.Body, p.RepoURL, p.DemoURL,
		p.Featured, p.SortOrder, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project.
func (s *ProjectStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
