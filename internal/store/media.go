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

// MediaStore handles media library database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, filename, original_name, content_type, size_bytes,
	bucket, s3_key, alt_text, uploader_id, created_at`

func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.Bucket, &m.S3Key, &m.AltText, &m.UploaderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns media entries newest first, with pagination.
func (s *MediaStore) List(limit, offset int) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Count returns the total number of media entries.
func (s *MediaStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return count, nil
}

// FindByID retrieves a media entry by UUID. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	row := s.db.QueryRow(`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// Create inserts a new media entry and returns it with the generated ID.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	result := &models.Media{}
	err := s.db.QueryRow(`
		INSERT INTO media (filename, original_name, content_type, size_bytes,
		                   bucket, s3_key, alt_text, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+mediaColumns,
		m.Filename, m.OriginalName, m.ContentType, m.SizeBytes,
		m.Bucket, m.S3Key, m.AltText, m.UploaderID,
	).Scan(
		&result.ID, &result.Filename, &result.OriginalName, &result.ContentType,
		&result.SizeBytes, &result.Bucket, &result.S3Key, &result.AltText,
		&result.UploaderID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// UpdateAltText sets the alt text of a media entry.
func (s *MediaStore) UpdateAltText(id uuid.UUID, altText string) error {
	_, err := s.db.Exec(`UPDATE media SET alt_text = $1 WHERE id = $2`, altText, id)
	if err != nil {
		return fmt.Errorf("update media alt text: %w", err)
	}
	return nil
}

// Delete removes a media entry and returns the deleted row so callers can
// clean up object storage. Variants cascade in the database; posts
// referencing it as featured image fall back to NULL. Returns nil when
// the entry does not exist.
func (s *MediaStore) Delete(id uuid.UUID) (*models.Media, error) {
	row := s.db.QueryRow(`DELETE FROM media WHERE id = $1 RETURNING `+mediaColumns, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}

// AddVariant records a generated variant for a media entry, replacing any
// previous variant of the same name.
func (s *MediaStore) AddVariant(v *models.MediaVariant) (*models.MediaVariant, error) {
	result := &models.MediaVariant{}
	err := s.db.QueryRow(`
		INSERT INTO media_variants (media_id, name, width, height, s3_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (media_id, name) DO UPDATE SET
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			s3_key = EXCLUDED.s3_key,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes
		RETURNING id, media_id, name, width, height, s3_key, content_type, size_bytes, created_at
	`, v.MediaID, v.Name, v.Width, v.Height, v.S3Key, v.ContentType, v.SizeBytes,
	).Scan(
		&result.ID, &result.MediaID, &result.Name, &result.Width, &result.Height,
		&result.S3Key, &result.ContentType, &result.SizeBytes, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add media variant: %w", err)
	}
	return result, nil
}

// VariantsFor returns the variants of a media entry ordered by width.
func (s *MediaStore) VariantsFor(mediaID uuid.UUID) ([]models.MediaVariant, error) {
	rows, err := s.db.Query(`
		SELECT id, media_id, name, width, height, s3_key, content_type, size_bytes, created_at
		FROM media_variants
		WHERE media_id = $1
		ORDER BY width ASC
	`, mediaID)
	if err != nil {
		return nil, fmt.Errorf("list media variants: %w", err)
	}
	defer rows.Close()

	var variants []models.MediaVariant
	for rows.Next() {
		var v models.MediaVariant
		err := rows.Scan(&v.ID, &v.MediaID, &v.Name, &v.Width, &v.Height,
			&v.S3Key, &v.ContentType, &v.SizeBytes, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan media variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
