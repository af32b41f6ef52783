package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio entry shown on the public projects page.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	RepoURL   *string   `json:"repo_url,omitempty"`
	DemoURL   *string   `json:"demo_url,omitempty"`
	Featured  bool      `json:"featured"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
