// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Tag labels a post. Tags are shared across posts through the post_tags
// junction table; deleting a post or a tag cascades to the links.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`

	// PostCount is populated by listing queries that aggregate usage.
	PostCount int `json:"post_count,omitempty"`
}
