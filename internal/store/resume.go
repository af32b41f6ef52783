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

// ResumeStore handles experience and skill database operations for the
// resume page.
type ResumeStore struct {
	db *sql.DB
}

// NewResumeStore creates a new ResumeStore with the given database connection.
func NewResumeStore(db *sql.DB) *ResumeStore {
	return &ResumeStore{db: db}
}

const experienceColumns = `id, company, role, location, start_date, end_date, summary, sort_order`

// ListExperience returns resume entries, current positions first, then by
// start date descending.
func (s *ResumeStore) ListExperience() ([]models.Experience, error) {
	rows, err := s.db.Query(`
		SELECT ` + experienceColumns + `
		FROM experience
		ORDER BY sort_order ASC, end_date DESC NULLS FIRST, start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	var entries []models.Experience
	for rows.Next() {
		var e models.Experience
		err := rows.Scan(&e.ID, &e.Company, &e.Role, &e.Location,
			&e.StartDate, &e.EndDate, &e.Summary, &e.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindExperience retrieves a resume entry by UUID. Returns nil if not found.
func (s *ResumeStore) FindExperience(id uuid.UUID) (*models.Experience, error) {
	var e models.Experience
	err := s.db.QueryRow(`
		SELECT `+experienceColumns+` FROM experience WHERE id = $1
	`, id).Scan(&e.ID, &e.Company, &e.Role, &e.Location,
		&e.StartDate, &e.EndDate, &e.Summary, &e.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find experience: %w", err)
	}
	return &e, nil
}

// CreateExperience inserts a resume entry.
func (s *ResumeStore) CreateExperience(e *models.Experience) (*models.Experience, error) {
	result := &models.Experience{}
	err := s.db.QueryRow(`
		INSERT INTO experience (company, role, location, start_date, end_date, summary, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+experienceColumns,
		e.Company, e.Role, e.Location, e.StartDate, e.EndDate, e.Summary, e.SortOrder,
	).Scan(&result.ID, &result.Company, &result.Role, &result.Location,
		&result.StartDate, &result.EndDate, &result.Summary, &result.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return result, nil
}

// UpdateExperience modifies a resume entry.
func (s *ResumeStore) UpdateExperience(e *models.Experience) error {
	_, err := s.db.Exec(`
		UPDATE experience SET
			company = $1, role = $2, location = $3, start_date = $4,
			end_date = $5, summary = $6, sort_order = $7
		WHERE id = $8
	`, e.Company, e.Role, e.Location, e.StartDate, e.EndDate, e.Summary, e.SortOrder, e.ID)
	if err != nil {
		return fmt.Errorf("update experience: %w", err)
	}
	return nil
}

// DeleteExperience removes a resume entry.
func (s *ResumeStore) DeleteExperience(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM experience WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return nil
}

// ListSkills returns skills grouped by category order for the resume page.
func (s *ResumeStore) ListSkills() ([]models.Skill, error) {
	rows, err := s.db.Query(`
		SELECT id, name, category, level, sort_order
		FROM skills
		ORDER BY category ASC, sort_order ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Level, &sk.SortOrder); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// CreateSkill inserts a skill.
func (s *ResumeStore) CreateSkill(sk *models.Skill) (*models.Skill, error) {
	result := &models.Skill{}
	err := s.db.QueryRow(`
		INSERT INTO skills (name, category, level, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, category, level, sort_order
	`, sk.Name, sk.Category, sk.Level, sk.SortOrder,
	).Scan(&result.ID, &result.Name, &result.Category, &result.Level, &result.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return result, nil
}

// UpdateSkill modifies a skill.
func (s *ResumeStore) UpdateSkill(sk *models.Skill) error {
	_, err := s.db.Exec(`
		UPDATE skills SET name = $1, category = $2, level = $3, sort_order = $4
		WHERE id = $5
	`, sk.Name, sk.Category, sk.Level, sk.SortOrder, sk.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return nil
}

// DeleteSkill removes a skill.
func (s *ResumeStore) DeleteSkill(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}
