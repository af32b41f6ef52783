// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/models"
)

// ResumeAdmin renders the resume management page with both experience
// and skill listings.
func (a *Admin) ResumeAdmin(w http.ResponseWriter, r *http.Request) {
	a.resumePage(w, r, "")
}

func (a *Admin) resumePage(w http.ResponseWriter, r *http.Request, errMsg string) {
	experience, err := a.resume.ListExperience()
	if err != nil {
		slog.Error("list experience failed", "error", err)
	}
	skills, err := a.resume.ListSkills()
	if err != nil {
		slog.Error("list skills failed", "error", err)
	}

	data := map[string]any{
		"Experience": experience,
		"Skills":     skills,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	a.page(w, r, "admin/resume", "Resume", "resume", data)
}

// ExperienceCreate adds a resume experience entry from the inline form.
func (a *Admin) ExperienceCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	company := strings.TrimSpace(r.FormValue("company"))
	role := strings.TrimSpace(r.FormValue("role"))
	if company == "" || role == "" {
		a.resumePage(w, r, "Company and role are required.")
		return
	}

	startDate, err := time.Parse("2006-01-02", r.FormValue("start_date"))
	if err != nil {
		a.resumePage(w, r, "Start date is required.")
		return
	}

	exp := &models.Experience{
		Company:   company,
		Role:      role,
		StartDate: startDate,
		Summary:   r.FormValue("summary"),
		Location:  optionalField(r.FormValue("location")),
	}
	exp.SortOrder, _ = strconv.Atoi(r.FormValue("sort_order"))

	if v := r.FormValue("end_date"); v != "" {
		endDate, err := time.Parse("2006-01-02", v)
		if err != nil {
			a.resumePage(w, r, "End date is not a valid date.")
			return
		}
		if endDate.Before(startDate) {
			a.resumePage(w, r, "End date cannot be before the start date.")
			return
		}
		exp.EndDate = &endDate
	}

	if _, err := a.resume.CreateExperience(exp); err != nil {
		slog.Error("create experience failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.Invalidate(r.Context(), cache.ResumeKey)
	http.Redirect(w, r, "/admin/resume", http.StatusSeeOther)
}

// ExperienceDelete removes a resume experience entry.
func (a *Admin) ExperienceDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.resume.DeleteExperience(id); err != nil {
		slog.Error("delete experience failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.Invalidate(r.Context(), cache.ResumeKey)
	http.Redirect(w, r, "/admin/resume", http.StatusSeeOther)
}

// SkillCreate adds a skill from the inline form.
func (a *Admin) SkillCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		a.resumePage(w, r, "Skill name is required.")
		return
	}

	level, _ := strconv.Atoi(r.FormValue("level"))
	if level < 1 || level > 5 {
		a.resumePage(w, r, "Level must be between 1 and 5.")
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = "General"
	}

	sk := &models.Skill{
		Name:     name,
		Category: category,
		Level:    level,
	}
	sk.SortOrder, _ = strconv.Atoi(r.FormValue("sort_order"))

	if _, err := a.resume.CreateSkill(sk); err != nil {
		slog.Error("create skill failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.Invalidate(r.Context(), cache.ResumeKey)
	http.Redirect(w, r, "/admin/resume", http.StatusSeeOther)
}

// SkillDelete removes a skill.
func (a *Admin) SkillDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.resume.DeleteSkill(id); err != nil {
		slog.Error("delete skill failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.Invalidate(r.Context(), cache.ResumeKey)
	http.Redirect(w, r, "/admin/resume", http.StatusSeeOther)
}
