// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns lists the columns selected in post queries.
const postColumns = `id, title, slug, body, excerpt, status, meta_description,
	featured_image_id, author_id, published_at, created_at, updated_at`

// visibleWhere is the predicate for posts that appear on the public site.
// Scheduled posts become visible once their publish time passes.
const visibleWhere = `(status = 'published' OR (status = 'scheduled' AND published_at <= NOW()))`

// scanPost scans a post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.Status,
		&p.MetaDescription, &p.FeaturedImageID, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// collectPosts drains rows into a slice.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()
	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// List returns posts of any status for the admin area, newest first.
func (s *PostStore) List(limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return collectPosts(rows)
}

// Count returns the total number of posts regardless of status.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// FindByID retrieves a post by its UUID regardless of status. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindVisibleBySlug retrieves a publicly visible post by its slug.
// Drafts and archived posts return nil, as do scheduled posts whose
// publish time has not passed yet.
func (s *PostStore) FindVisibleBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		WHERE slug = $1 AND `+visibleWhere, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListVisible returns publicly visible posts ordered by publish date
// descending, with pagination.
func (s *PostStore) ListVisible(limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE `+visibleWhere+`
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list visible posts: %w", err)
	}
	return collectPosts(rows)
}

// CountVisible returns the number of publicly visible posts.
func (s *PostStore) CountVisible() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE ` + visibleWhere).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visible posts: %w", err)
	}
	return count, nil
}

// ListVisibleByTag returns publicly visible posts carrying the given tag
// slug, newest first.
func (s *PostStore) ListVisibleByTag(tagSlug string, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE `+visibleWhere+`
		  AND id IN (
			SELECT pt.post_id FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE t.slug = $1
		  )
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`, tagSlug, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts by tag: %w", err)
	}
	return collectPosts(rows)
}

// Search returns publicly visible posts matching the query, ranked so that
// title matches outweigh body matches. Matching is case-insensitive
// substring (ILIKE); an empty query returns no results.
func (s *PostStore) Search(query string, limit int) ([]models.Post, error) {
	if query == "" {
		return nil, nil
	}
	pattern := "%" + query + "%"

	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE `+visibleWhere+`
		  AND (title ILIKE $1 OR excerpt ILIKE $1 OR body ILIKE $1)
		ORDER BY
			(CASE WHEN title ILIKE $1 THEN 2 ELSE 0 END) +
			(CASE WHEN excerpt ILIKE $1 THEN 1 ELSE 0 END) +
			(CASE WHEN body ILIKE $1 THEN 1 ELSE 0 END) DESC,
			published_at DESC NULLS LAST
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return collectPosts(rows)
}

// SlugExists reports whether another post already uses the slug. excludeID
// skips the post being edited; pass uuid.Nil when creating.
func (s *PostStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	// If publishing without an explicit timestamp, set it now. Scheduled
	// posts keep the future timestamp the author picked.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	result := &models.Post{}
	err := s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, excerpt, status, meta_description,
		                   featured_image_id, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.Excerpt, p.Status, p.MetaDescription,
		p.FeaturedImageID, p.AuthorID, p.PublishedAt,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.Body, &result.Excerpt,
		&result.Status, &result.MetaDescription, &result.FeaturedImageID,
		&result.AuthorID, &result.PublishedAt, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post.
func (s *PostStore) Update(p *models.Post) error {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, excerpt = $4, status = $5,
			meta_description = $6, featured_image_id = $7, published_at = $8,
			updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.Body, p.Excerpt, p.Status,
		p.MetaDescription, p.FeaturedImageID, p.PublishedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Tag links cascade in the database.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
