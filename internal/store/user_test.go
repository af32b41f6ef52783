// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "testpass123", "Test User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Email != email {
		t.Errorf("email: got %q, want %q", user.Email, email)
	}
	if user.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleEditor)
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "" || user.PasswordHash == "testpass123" {
		t.Error("password hash must be set and not plaintext")
	}
}

func TestUserStoreAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-auth@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	if _, err := s.Create(email, "correct-horse", "Auth User", models.RoleAdmin); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := s.Authenticate(email, "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user == nil {
		t.Fatal("expected user for correct password")
	}

	user, err = s.Authenticate(email, "wrong-password")
	if err != nil {
		t.Fatalf("Authenticate wrong: %v", err)
	}
	if user != nil {
		t.Error("expected nil for wrong password")
	}

	user, err = s.Authenticate("nobody@store-test.local", "anything")
	if err != nil {
		t.Fatalf("Authenticate missing: %v", err)
	}
	if user != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "pass", "TOTP User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !user.Needs2FASetup() {
		t.Error("new user should need 2FA setup")
	}

	if err := s.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	refreshed, err := s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if refreshed.TOTPSecret == nil || *refreshed.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("secret not stored")
	}
	if refreshed.TOTPEnabled {
		t.Error("secret should be pending until verified")
	}

	if err := s.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	refreshed, err = s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !refreshed.TOTPEnabled {
		t.Error("expected totp_enabled after EnableTOTP")
	}

	// Admin reset: a fresh pending secret disables 2FA again.
	if err := s.SetTOTPSecret(user.ID, "NEWSECRETNEWSECR"); err != nil {
		t.Fatalf("SetTOTPSecret reset: %v", err)
	}
	refreshed, err = s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if refreshed.TOTPEnabled {
		t.Error("reset should disable 2FA until re-verified")
	}
}

func TestUserStoreUpdatePassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-passwd@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "old-password", "Pass User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.UpdatePassword(user.ID, "new-password"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	if u, _ := s.Authenticate(email, "old-password"); u != nil {
		t.Error("old password still accepted")
	}
	if u, _ := s.Authenticate(email, "new-password"); u == nil {
		t.Error("new password rejected")
	}
}
