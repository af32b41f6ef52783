// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SiteSetting is one row of the site_settings key-value table.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSettings holds all settings loaded at once for template rendering.
type SiteSettings map[string]string

// Keys the public site and the settings form agree on.
const (
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingBaseURL         = "base_url"
	SettingAuthorName      = "author_name"
	SettingGitHubURL       = "github_url"
	SettingLinkedInURL     = "linkedin_url"
)

// Get returns the value for key, falling back when the key is absent or
// saved empty.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}
