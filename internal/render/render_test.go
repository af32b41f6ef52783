package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/session"
)

// helperSession returns a session.Data suitable for rendering admin templates.
func helperSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@inkpress.local",
		DisplayName: "Test User",
		Role:        "admin",
		TwoFADone:   true,
	}
}

func helperRequest(sess *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if sess != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, sess))
	}
	return req
}

func helperSettings() models.SiteSettings {
	return models.SiteSettings{
		"site_title":       "Test Site",
		"site_description": "Testing.",
		"base_url":         "http://localhost:8080",
	}
}

func TestNewParsesAllTemplates(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{
		"public/home", "public/blog", "public/post", "public/projects",
		"public/resume", "public/contact", "public/search", "public/notfound",
		"admin/login", "admin/2fa_setup", "admin/2fa_verify", "admin/dashboard",
		"admin/posts", "admin/post_form", "admin/media", "admin/inbox",
		"admin/message", "admin/projects", "admin/project_form", "admin/resume",
		"admin/settings", "admin/users",
	} {
		if !rn.Has(name) {
			t.Errorf("missing template %q", name)
		}
	}
}

func TestPageRendersPublicHome(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	now := time.Now()
	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(nil), "public/home", &PageData{
		Title:    "Home",
		Settings: helperSettings(),
		Data: map[string]any{
			"Posts": []models.Post{
				{Title: "First Post", Slug: "first-post", PublishedAt: &now},
			},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Test Site") {
		t.Error("expected site title in output")
	}
	if !strings.Contains(body, "/blog/first-post") {
		t.Error("expected post link in output")
	}
}

func TestPageRendersPostMarkdown(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	now := time.Now()
	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(nil), "public/post", &PageData{
		Title:    "A Post",
		Settings: helperSettings(),
		Data: map[string]any{
			"Post": models.Post{
				Title:       "A Post",
				Slug:        "a-post",
				Body:        "Some **bold** text.",
				PublishedAt: &now,
			},
		},
	})

	body := w.Body.String()
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Error("markdown body not rendered to HTML")
	}
}

func TestPageStatusNotFound(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	rn.PageStatus(w, helperRequest(nil), "public/notfound", http.StatusNotFound, &PageData{
		Title:    "Not found",
		Settings: helperSettings(),
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestPageRendersAdminDashboard(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(helperSession()), "admin/dashboard", &PageData{
		Title:    "Dashboard",
		Section:  "dashboard",
		Settings: helperSettings(),
		Data: map[string]any{
			"PostCount":    3,
			"MediaCount":   1,
			"MessageCount": 0,
			"UserCount":    1,
		},
	})

	body := w.Body.String()
	if !strings.Contains(body, "Dashboard") {
		t.Error("expected dashboard heading")
	}
	// Admin role sees the users link.
	if !strings.Contains(body, "/admin/users") {
		t.Error("admin should see user management nav")
	}
}

func TestAdminLoginIsStandalone(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(nil), "admin/login", &PageData{
		Title:    "Log in",
		Settings: helperSettings(),
	})

	body := w.Body.String()
	if !strings.Contains(body, "<html") {
		t.Error("standalone page should include full document")
	}
	if strings.Contains(body, "admin-nav") {
		t.Error("login page must not include the admin sidebar")
	}
}

func TestUnknownTemplateIs500(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	rn.Page(w, helperRequest(nil), "public/nope", &PageData{Settings: helperSettings()})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
}
