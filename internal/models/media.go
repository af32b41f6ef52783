// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media is an uploaded file. The bytes live in object storage; Postgres
// holds only this metadata row.
type Media struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Bucket       string    `json:"bucket"`
	S3Key        string    `json:"s3_key"`
	AltText      *string   `json:"alt_text,omitempty"`
	UploaderID   uuid.UUID `json:"uploader_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsImage reports whether the file carries an image content type.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// HumanSize formats SizeBytes for the media library listing.
func (m *Media) HumanSize() string {
	const kb, mb = int64(1024), int64(1024 * 1024)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	}
	return fmt.Sprintf("%d B", m.SizeBytes)
}

// MediaVariant is a resized copy of an uploaded image, generated at upload
// time for responsive delivery.
type MediaVariant struct {
	ID          uuid.UUID `json:"id"`
	MediaID     uuid.UUID `json:"media_id"`
	Name        string    `json:"name"` // "thumb", "sm", "md", "lg"
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	S3Key       string    `json:"s3_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
