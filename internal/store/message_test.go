// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"inkpress/internal/models"
)

func TestMessageStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewMessageStore(db)

	created, err := s.Create(&models.Message{
		Name:      "Store Test",
		Email:     "visitor@store-test.local",
		Subject:   "Hello",
		Body:      "Just testing the inbox.",
		ClientIP:  "192.0.2.1",
		UserAgent: "store-test/1.0",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM messages WHERE id = $1", created.ID) })

	if created.Read {
		t.Error("new message should be unread")
	}
	if created.ClientIP != "192.0.2.1" {
		t.Errorf("client ip: got %q", created.ClientIP)
	}

	unreadBefore, err := s.CountUnread()
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if unreadBefore < 1 {
		t.Errorf("expected at least 1 unread, got %d", unreadBefore)
	}

	if err := s.MarkRead(created.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !found.Read {
		t.Error("expected read=true after MarkRead")
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if found != nil {
		t.Error("expected nil after delete")
	}
}
