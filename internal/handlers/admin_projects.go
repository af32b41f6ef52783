// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// ProjectsList renders the project management page.
func (a *Admin) ProjectsList(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.List()
	if err != nil {
		slog.Error("list projects failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, "admin/projects", "Projects", "projects", map[string]any{
		"Projects": projects,
	})
}

// ProjectNew renders the empty project form.
func (a *Admin) ProjectNew(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, "admin/project_form", "New project", "projects", map[string]any{
		"Project": &models.Project{},
		"Action":  "/admin/projects",
	})
}

// ProjectEdit renders the form for an existing project.
func (a *Admin) ProjectEdit(w http.ResponseWriter, r *http.Request) {
	project := a.findProject(w, r)
	if project == nil {
		return
	}

	a.page(w, r, "admin/project_form", "Edit project", "projects", map[string]any{
		"Project": project,
		"Action":  "/admin/projects/" + project.ID.String(),
	})
}

// ProjectCreate handles the new-project form submission.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	a.saveProject(w, r, nil)
}

// ProjectUpdate handles the edit-project form submission.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	project := a.findProject(w, r)
	if project == nil {
		return
	}
	a.saveProject(w, r, project)
}

// saveProject validates and persists the project form for both create
// and update. A nil project means create.
func (a *Admin) saveProject(w http.ResponseWriter, r *http.Request, project *models.Project) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	isNew := project == nil
	if isNew {
		project = &models.Project{}
	}

	project.Title = strings.TrimSpace(r.FormValue("title"))
	project.Summary = strings.TrimSpace(r.FormValue("summary"))
	project.Body = r.FormValue("body")
	project.Featured = r.FormValue("featured") == "1"
	project.SortOrder, _ = strconv.Atoi(r.FormValue("sort_order"))
	project.RepoURL = optionalField(r.FormValue("repo_url"))
	project.DemoURL = optionalField(r.FormValue("demo_url"))

	formSlug := slug.Generate(r.FormValue("slug"))

	renderErr := func(msg string) {
		action := "/admin/projects"
		if !isNew {
			action = "/admin/projects/" + project.ID.String()
		}
		project.Slug = formSlug
		a.page(w, r, "admin/project_form", "Edit project", "projects", map[string]any{
			"Project": project,
			"Action":  action,
			"Error":   msg,
		})
	}

	if msg := validateProject(project.Title, formSlug); msg != "" {
		renderErr(msg)
		return
	}

	if formSlug == "" {
		base := slug.Generate(project.Title)
		project.Slug = slug.Unique(base, func(candidate string) bool {
			exists, err := a.projects.SlugExists(candidate, project.ID)
			return err == nil && exists
		})
	} else {
		exists, err := a.projects.SlugExists(formSlug, project.ID)
		if err != nil {
			slog.Error("slug check failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if exists {
			renderErr("That slug is already in use.")
			return
		}
		project.Slug = formSlug
	}

	if isNew {
		if _, err := a.projects.Create(project); err != nil {
			slog.Error("create project failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	} else {
		if err := a.projects.Update(project); err != nil {
			slog.Error("update project failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	a.invalidateProjectCache(r)
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// ProjectDelete removes a project.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	project := a.findProject(w, r)
	if project == nil {
		return
	}

	if err := a.projects.Delete(project.ID); err != nil {
		slog.Error("delete project failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidateProjectCache(r)
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// invalidateProjectCache drops the public pages a project mutation can
// affect. Featured projects appear on the home page.
func (a *Admin) invalidateProjectCache(r *http.Request) {
	a.pageCache.Invalidate(r.Context(), cache.ProjectsKey, cache.HomeKey, cache.SitemapKey)
}

func (a *Admin) findProject(w http.ResponseWriter, r *http.Request) *models.Project {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil
	}

	project, err := a.projects.FindByID(id)
	if err != nil {
		slog.Error("project lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil
	}
	return project
}

// optionalField turns a blank form value into a nil pointer.
func optionalField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
