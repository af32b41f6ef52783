// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed creates the development fixtures: a default admin account and a
// welcome post. It is a no-op when any user already exists, and is only
// wired up in dev mode.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// totp_enabled stays false: the first login forces 2FA enrollment.
	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, 'admin', false)
		RETURNING id
	`, "admin@inkpress.local", string(hash), "Admin").Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// One published post so the homepage and feed aren't empty.
	_, err = db.Exec(`
		INSERT INTO posts (title, slug, body, excerpt, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, 'published', $5, NOW())
	`, "Hello, world", "hello-world",
		"# Hello\n\nThis is the first post. Edit or delete it in the admin area.",
		"The obligatory first post.", adminID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkpress.local",
		"password", "admin",
	)
	return nil
}
