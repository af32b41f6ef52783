// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin interface. Templates are embedded in the binary; each page is
// parsed against its set's base layout at startup so template errors fail
// fast rather than at request time.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/markdown"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/session"
)

//go:embed templates/public/*.html templates/admin/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "blog", "posts")
	Settings  models.SiteSettings
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for admin forms
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Public pages pair with the public base layout, admin pages
// with the admin one. Template names are prefixed by set, e.g.
// "public/home" and "admin/dashboard".
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// markdown renders trusted markdown (authored in the admin) to HTML.
		"markdown": func(src string) (template.HTML, error) {
			out, err := markdown.ToHTML(src)
			if err != nil {
				return "", err
			}
			return template.HTML(out), nil
		},
		// derefTime safely dereferences a time pointer; zero time when nil.
		"derefTime": func(t *time.Time) time.Time {
			if t == nil {
				return time.Time{}
			}
			return *t
		},
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"dateShort": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"monthYear": func(t time.Time) string {
			return t.Format("Jan 2006")
		},
		"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
			return ptr != nil && *ptr == val
		},
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		"joinTags": func(tags []models.Tag) string {
			names := make([]string, len(tags))
			for i, t := range tags {
				names[i] = t.Name
			}
			return strings.Join(names, ", ")
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, set := range []string{"public", "admin"} {
		entries, err := templateFS.ReadDir("templates/" + set)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" {
				continue
			}
			tmplName := strings.TrimSuffix(name, ".html")

			var tmpl *template.Template
			var parseErr error
			if set == "admin" && standaloneTemplates[tmplName] {
				tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
					templateFS, "templates/admin/"+name,
				)
			} else {
				tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
					templateFS, "templates/"+set+"/base.html", "templates/"+set+"/"+name,
				)
			}
			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s/%s: %w", set, name, parseErr)
			}

			r.templates[set+"/"+tmplName] = tmpl
		}
	}

	return r, nil
}

// Page renders a full page for the given template name ("public/home",
// "admin/dashboard"). Session and CSRF token are pulled from the request
// context when not already set.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, name, http.StatusOK, data)
}

// PageStatus renders a page with an explicit HTTP status, used for error
// pages like 404.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	if data.CSRFToken == "" {
		data.CSRFToken = middleware.GetCSRFToken(r)
	}
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	execName := "base.html"
	short := name[strings.Index(name, "/")+1:]
	if strings.HasPrefix(name, "admin/") && standaloneTemplates[short] {
		execName = short + ".html"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, execName, data); err != nil {
		// Headers already sent; nothing to do but stop.
		return
	}
}

// Has reports whether a template with the given name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}
