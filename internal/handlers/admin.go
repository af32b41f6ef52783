// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/render"
	"inkpress/internal/session"
	"inkpress/internal/slug"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

// Admin groups the authenticated CMS handlers: dashboard, posts, inbox,
// projects, resume, settings, and user management. Media lives in
// admin_media.go on the same struct.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	pageCache     *cache.PageCache
	posts         *store.PostStore
	tags          *store.TagStore
	users         *store.UserStore
	media         *store.MediaStore
	messages      *store.MessageStore
	projects      *store.ProjectStore
	resume        *store.ResumeStore
	settings      *store.SiteSettingStore
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// S3 is not configured; media upload then responds 503.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, pageCache *cache.PageCache, posts *store.PostStore, tags *store.TagStore, users *store.UserStore, media *store.MediaStore, messages *store.MessageStore, projects *store.ProjectStore, resume *store.ResumeStore, settings *store.SiteSettingStore, storageClient *storage.Client) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		pageCache:     pageCache,
		posts:         posts,
		tags:          tags,
		users:         users,
		media:         media,
		messages:      messages,
		projects:      projects,
		resume:        resume,
		settings:      settings,
		storageClient: storageClient,
	}
}

func (a *Admin) siteSettings() models.SiteSettings {
	settings, err := a.settings.All()
	if err != nil {
		slog.Error("load site settings failed", "error", err)
		return models.SiteSettings{}
	}
	return settings
}

// page is a small helper that fills the ambient admin template data.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, name, title, section string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["UnreadCount"]; !ok {
		if unread, err := a.messages.CountUnread(); err == nil && unread > 0 {
			data["UnreadCount"] = unread
		}
	}
	a.renderer.Page(w, r, name, &render.PageData{
		Title:    title,
		Section:  section,
		Settings: a.siteSettings(),
		Data:     data,
	})
}

// invalidatePostCache drops the public pages a post mutation can affect.
func (a *Admin) invalidatePostCache(ctx context.Context, postSlug string, tags []models.Tag) {
	keys := []string{cache.HomeKey, cache.BlogKey, cache.FeedKey, cache.SitemapKey, cache.PostKey(postSlug)}
	for _, t := range tags {
		keys = append(keys, cache.TagKey(t.Slug))
	}
	a.pageCache.Invalidate(ctx, keys...)
}

// Dashboard shows entity counts and the latest inbox messages.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	postCount, _ := a.posts.Count()
	mediaCount, _ := a.media.Count()
	messageCount, _ := a.messages.Count()
	userCount, _ := a.users.Count()
	latest, err := a.messages.List(5, 0)
	if err != nil {
		slog.Error("list latest messages failed", "error", err)
	}

	a.page(w, r, "admin/dashboard", "Dashboard", "dashboard", map[string]any{
		"PostCount":      postCount,
		"MediaCount":     mediaCount,
		"MessageCount":   messageCount,
		"UserCount":      userCount,
		"LatestMessages": latest,
	})
}

// PostsList shows all posts regardless of status.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(200, 0)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, "admin/posts", "Posts", "posts", map[string]any{"Posts": posts})
}

// PostNew renders an empty post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, "admin/post_form", "New post", "posts", map[string]any{
		"Post":         &models.Post{Status: models.PostStatusDraft},
		"Action":       "/admin/posts",
		"MediaChoices": a.mediaChoices(),
	})
}

// PostEdit renders the form for an existing post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}
	tags, err := a.tags.ListForPost(post.ID)
	if err != nil {
		slog.Error("list post tags failed", "error", err)
	}
	post.Tags = tags

	a.page(w, r, "admin/post_form", "Edit post", "posts", map[string]any{
		"Post":             post,
		"Action":           "/admin/posts/" + post.ID.String(),
		"PublishedAtValue": datetimeLocal(post.PublishedAt),
		"MediaChoices":     a.mediaChoices(),
	})
}

// PostCreate handles the new-post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	a.savePost(w, r, nil)
}

// PostUpdate handles the edit form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}
	a.savePost(w, r, post)
}

// savePost is the shared create/update path. existing is nil on create.
func (a *Admin) savePost(w http.ResponseWriter, r *http.Request, existing *models.Post) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	postSlug := strings.TrimSpace(r.FormValue("slug"))
	body := r.FormValue("body")
	excerpt := strings.TrimSpace(r.FormValue("excerpt"))
	metaDesc := strings.TrimSpace(r.FormValue("meta_description"))
	status := models.PostStatus(r.FormValue("status"))
	tagNames := splitTags(r.FormValue("tags"))

	renderErr := func(msg string) {
		form := &models.Post{
			Title: title, Slug: postSlug, Body: body, Status: status,
		}
		action := "/admin/posts"
		if existing != nil {
			form.ID = existing.ID
			action = "/admin/posts/" + existing.ID.String()
		}
		if excerpt != "" {
			form.Excerpt = &excerpt
		}
		if metaDesc != "" {
			form.MetaDescription = &metaDesc
		}
		a.page(w, r, "admin/post_form", "Post", "posts", map[string]any{
			"Error":        msg,
			"Post":         form,
			"Action":       action,
			"MediaChoices": a.mediaChoices(),
		})
	}

	if msg := validatePost(title, postSlug, body); msg != "" {
		renderErr(msg)
		return
	}
	if msg := validateMetadata(excerpt, metaDesc); msg != "" {
		renderErr(msg)
		return
	}
	if !models.ValidPostStatus(status) {
		renderErr("Unknown post status.")
		return
	}

	// Blank slug: derive from the title, with a numbered suffix when taken.
	excludeID := uuid.Nil
	if existing != nil {
		excludeID = existing.ID
	}
	if postSlug == "" {
		postSlug = slug.Unique(slug.Generate(title), func(candidate string) bool {
			taken, err := a.posts.SlugExists(candidate, excludeID)
			return err == nil && taken
		})
	} else {
		postSlug = slug.Generate(postSlug)
		taken, err := a.posts.SlugExists(postSlug, excludeID)
		if err != nil {
			slog.Error("slug check failed", "error", err)
			renderErr("Something went wrong. Please try again.")
			return
		}
		if taken {
			renderErr("That slug is already in use by another post.")
			return
		}
	}

	var publishedAt *time.Time
	if raw := r.FormValue("published_at"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", raw, time.Local)
		if err != nil {
			renderErr("Publish time is not a valid date.")
			return
		}
		publishedAt = &t
	}
	if status == models.PostStatusScheduled && publishedAt == nil {
		renderErr("Scheduled posts need a publish time.")
		return
	}

	var featuredImageID *uuid.UUID
	if raw := r.FormValue("featured_image_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			featuredImageID = &id
		}
	}

	post := &models.Post{
		Title:           title,
		Slug:            postSlug,
		Body:            body,
		Status:          status,
		FeaturedImageID: featuredImageID,
		PublishedAt:     publishedAt,
	}
	if excerpt != "" {
		post.Excerpt = &excerpt
	}
	if metaDesc != "" {
		post.MetaDescription = &metaDesc
	}

	var oldSlug string
	var oldTags []models.Tag
	if existing == nil {
		post.AuthorID = sess.UserID
		created, err := a.posts.Create(post)
		if err != nil {
			slog.Error("create post failed", "error", err)
			renderErr("Something went wrong. Please try again.")
			return
		}
		post = created
	} else {
		oldSlug = existing.Slug
		oldTags, _ = a.tags.ListForPost(existing.ID)
		post.ID = existing.ID
		post.AuthorID = existing.AuthorID
		// Keep the original publish time when the form leaves it blank.
		if post.PublishedAt == nil {
			post.PublishedAt = existing.PublishedAt
		}
		if err := a.posts.Update(post); err != nil {
			slog.Error("update post failed", "error", err)
			renderErr("Something went wrong. Please try again.")
			return
		}
	}

	if err := a.tags.ReplaceForPost(post.ID, tagNames); err != nil {
		slog.Error("replace post tags failed", "error", err)
	}

	newTags, _ := a.tags.ListForPost(post.ID)
	a.invalidatePostCache(r.Context(), post.Slug, append(newTags, oldTags...))
	if oldSlug != "" && oldSlug != post.Slug {
		a.pageCache.Invalidate(r.Context(), cache.PostKey(oldSlug))
	}

	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post and invalidates its public pages.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}

	tags, _ := a.tags.ListForPost(post.ID)
	if err := a.posts.Delete(post.ID); err != nil {
		slog.Error("delete post failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePostCache(r.Context(), post.Slug, tags)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// findPost resolves the {id} URL parameter to a post, writing the error
// response itself when the post cannot be served.
func (a *Admin) findPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil
	}
	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	if post == nil {
		http.NotFound(w, r)
		return nil
	}
	return post
}

// mediaChoices lists media for the featured-image dropdown.
func (a *Admin) mediaChoices() []models.Media {
	items, err := a.media.List(100, 0)
	if err != nil {
		slog.Error("list media choices failed", "error", err)
		return nil
	}
	return items
}

// SettingsPage renders the site settings form.
func (a *Admin) SettingsPage(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, "admin/settings", "Settings", "settings", nil)
}

// SettingsSave persists the settings form transactionally and flushes the
// whole page cache, since settings feed every public page.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := map[string]string{}
	for _, key := range []string{
		models.SettingSiteTitle, models.SettingSiteDescription,
		models.SettingBaseURL, models.SettingAuthorName,
		models.SettingGitHubURL, models.SettingLinkedInURL,
	} {
		values[key] = strings.TrimSpace(r.FormValue(key))
	}

	if err := a.settings.SetMany(values); err != nil {
		slog.Error("save settings failed", "error", err)
		a.page(w, r, "admin/settings", "Settings", "settings", map[string]any{
			"Error": "Saving settings failed. Please try again.",
		})
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// UsersList shows all users. Admin role only (enforced in the router).
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.page(w, r, "admin/users", "Users", "users", map[string]any{"Users": users})
}

// UserCreate adds a user from the users page form.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	role := models.Role(r.FormValue("role"))

	renderErr := func(msg string) {
		users, _ := a.users.List()
		a.page(w, r, "admin/users", "Users", "users", map[string]any{
			"Error": msg,
			"Users": users,
		})
	}

	if email == "" || displayName == "" {
		renderErr("Email and display name are required.")
		return
	}
	if len(password) < 12 {
		renderErr("Password must be at least 12 characters.")
		return
	}
	if role != models.RoleAdmin && role != models.RoleEditor {
		renderErr("Unknown role.")
		return
	}

	existing, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		renderErr("Something went wrong. Please try again.")
		return
	}
	if existing != nil {
		renderErr("A user with that email already exists.")
		return
	}

	if _, err := a.users.Create(email, password, displayName, role); err != nil {
		slog.Error("create user failed", "error", err)
		renderErr("Something went wrong. Please try again.")
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserResetTwoFA clears a user's TOTP enrollment so they re-enroll at
// next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Cannot reset your own 2FA.
	if sess != nil && targetID == sess.UserID {
		http.Error(w, "Cannot reset your own 2FA", http.StatusForbidden)
		return
	}

	if err := a.users.ResetTOTP(targetID); err != nil {
		slog.Error("reset 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if sess != nil {
		slog.Info("2fa reset by admin", "admin", sess.Email, "target_user", targetID)
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// splitTags turns a comma-separated tag field into trimmed names.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// datetimeLocal formats a time for a datetime-local input.
func datetimeLocal(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02T15:04")
}
