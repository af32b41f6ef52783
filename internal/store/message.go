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

// MessageStore handles contact form message database operations.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a new MessageStore with the given database connection.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, subject, body, read, client_ip, user_agent, created_at`

func scanMessage(scanner interface{ Scan(...any) error }) (*models.Message, error) {
	var m models.Message
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body,
		&m.Read, &m.ClientIP, &m.UserAgent, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create records an incoming contact message.
func (s *MessageStore) Create(m *models.Message) (*models.Message, error) {
	result := &models.Message{}
	err := s.db.QueryRow(`
		INSERT INTO messages (name, email, subject, body, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+messageColumns,
		m.Name, m.Email, m.Subject, m.Body, m.ClientIP, m.UserAgent,
	).Scan(
		&result.ID, &result.Name, &result.Email, &result.Subject, &result.Body,
		&result.Read, &result.ClientIP, &result.UserAgent, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return result, nil
}

// List returns messages newest first, with pagination.
func (s *MessageStore) List(limit, offset int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// FindByID retrieves a message by UUID. Returns nil if not found.
func (s *MessageStore) FindByID(id uuid.UUID) (*models.Message, error) {
	row := s.db.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

// MarkRead flags a message as read.
func (s *MessageStore) MarkRead(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Delete removes a message.
func (s *MessageStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// Count returns the total number of messages.
func (s *MessageStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// CountUnread returns the number of unread messages, shown as the inbox
// badge in the admin area.
func (s *MessageStore) CountUnread() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}
