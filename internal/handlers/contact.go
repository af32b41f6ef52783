// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkpress/internal/botcheck"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/render"
	"inkpress/internal/store"
)

// Contact handles the public contact form, including bot filtering.
type Contact struct {
	renderer *render.Renderer
	messages *store.MessageStore
	settings *store.SiteSettingStore
	detector *botcheck.Detector
}

// NewContact creates a new Contact handler group.
func NewContact(renderer *render.Renderer, messages *store.MessageStore, settings *store.SiteSettingStore, detector *botcheck.Detector) *Contact {
	return &Contact{
		renderer: renderer,
		messages: messages,
		settings: settings,
		detector: detector,
	}
}

func (c *Contact) siteSettings() models.SiteSettings {
	settings, err := c.settings.All()
	if err != nil {
		slog.Error("load site settings failed", "error", err)
		return models.SiteSettings{}
	}
	return settings
}

// Page renders the contact form with a fresh signed timestamp.
func (c *Contact) Page(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, map[string]any{})
}

// renderForm renders the contact form, merging any sticky field values
// and error message into the template data.
func (c *Contact) renderForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	ts, sig := c.detector.Stamp(time.Now())
	data["FormTS"] = ts
	data["FormSig"] = sig
	for _, field := range []string{"Name", "Email", "Subject", "Body"} {
		if _, ok := data[field]; !ok {
			data[field] = ""
		}
	}

	c.renderer.Page(w, r, "public/contact", &render.PageData{
		Title:    "Contact",
		Section:  "contact",
		Settings: c.siteSettings(),
		Data:     data,
	})
}

// Submit processes a contact form submission. Submissions that trip the
// bot heuristics get the normal thank-you page but are silently dropped,
// so automated senders learn nothing from the response.
func (c *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	body := strings.TrimSpace(r.FormValue("body"))

	reason := c.detector.Check(botcheck.Submission{
		Honeypot:  r.FormValue("website"),
		Timestamp: r.FormValue("form_ts"),
		Signature: r.FormValue("form_sig"),
		Body:      body,
	}, time.Now())
	if reason != "" {
		slog.Info("contact submission dropped",
			"reason", reason,
			"ip", middleware.ClientIP(r),
		)
		c.renderForm(w, r, map[string]any{"Sent": true})
		return
	}

	if msg := validateContact(name, email, subject, body); msg != "" {
		c.renderForm(w, r, map[string]any{
			"Error":   msg,
			"Name":    name,
			"Email":   email,
			"Subject": subject,
			"Body":    body,
		})
		return
	}

	_, err := c.messages.Create(&models.Message{
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		ClientIP:  middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		slog.Error("store contact message failed", "error", err)
		c.renderForm(w, r, map[string]any{
			"Error":   "Something went wrong. Please try again.",
			"Name":    name,
			"Email":   email,
			"Subject": subject,
			"Body":    body,
		})
		return
	}

	c.renderForm(w, r, map[string]any{"Sent": true})
}
