// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Experience is a single resume entry: one role at one company.
// A nil EndDate means the position is current.
type Experience struct {
	ID        uuid.UUID  `json:"id"`
	Company   string     `json:"company"`
	Role      string     `json:"role"`
	Location  *string    `json:"location,omitempty"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Summary   string     `json:"summary"`
	SortOrder int        `json:"sort_order"`
}

// IsCurrent returns true if the position has no end date.
func (e *Experience) IsCurrent() bool {
	return e.EndDate == nil
}

// Skill is a resume skill record grouped by category on the resume page.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     int       `json:"level"` // 1-5
	SortOrder int       `json:"sort_order"`
}
