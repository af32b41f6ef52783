// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// TagStore handles tag database operations and post-tag links.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// FindBySlug retrieves a tag by its slug. Returns nil if not found.
func (s *TagStore) FindBySlug(tagSlug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		SELECT id, name, slug FROM tags WHERE slug = $1
	`, tagSlug).Scan(&t.ID, &t.Name, &t.Slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// ListForPost returns the tags attached to a post, ordered by name.
func (s *TagStore) ListForPost(postID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list tags for post: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ReplaceForPost sets the complete tag list of a post in one transaction,
// creating tags by name as needed. Duplicate and empty names are skipped.
func (s *TagStore) ReplaceForPost(postID uuid.UUID, names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tag replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		tagSlug := slug.Generate(name)
		if name == "" || tagSlug == "" || seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true

		var tagID uuid.UUID
		err := tx.QueryRow(`
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = tags.name
			RETURNING id
		`, name, tagSlug).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("ensure tag %q: %w", name, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// ListWithCounts returns tags with the number of publicly visible posts
// carrying each, for the blog sidebar. Tags with no visible posts are
// omitted.
func (s *TagStore) ListWithCounts() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, COUNT(p.id) AS post_count
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		JOIN posts p ON p.id = pt.post_id AND ` + visibleWhere + `
		GROUP BY t.id, t.name, t.slug
		ORDER BY post_count DESC, t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags with counts: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
