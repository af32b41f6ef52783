// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// ValidPostStatus reports whether s is one of the known post statuses.
func ValidPostStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a blog entry with markdown content, status, and tags.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	Status          PostStatus `json:"status"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	FeaturedImageID *uuid.UUID `json:"featured_image_id,omitempty"`
	AuthorID        uuid.UUID  `json:"author_id"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Tags is populated by store queries that join post_tags.
	Tags []Tag `json:"tags,omitempty"`
}

// IsVisible returns true if the post should appear on the public site at
// the given time. Scheduled posts become visible once their publish time
// passes; no separate publish step is required.
func (p *Post) IsVisible(now time.Time) bool {
	switch p.Status {
	case PostStatusPublished:
		return true
	case PostStatusScheduled:
		return p.PublishedAt != nil && !p.PublishedAt.After(now)
	}
	return false
}
