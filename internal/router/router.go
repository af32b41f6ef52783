// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains. It
// organizes routes into public and admin groups with appropriate
// middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/session"
	"inkpress/web"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Sessions *session.Store
	Public   *handlers.Public
	Contact  *handlers.Contact
	Auth     *handlers.Auth
	Admin    *handlers.Admin

	// LoginLimiter throttles login and 2FA attempts per client IP.
	LoginLimiter *middleware.RateLimiter
	// ContactLimiter throttles contact-form submissions per client IP.
	ContactLimiter *middleware.RateLimiter

	// SecureCookies marks the CSRF cookie Secure; off in development
	// where the server runs plain HTTP.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check sits outside auth and CSRF.
	r.Get("/health", d.Public.Health)

	// Static assets.
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Admin routes: CSRF on everything, auth layered per group.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(d.SecureCookies))

		// Login is reachable without a session and rate limited.
		r.Group(func(r chi.Router) {
			r.Use(d.LoginLimiter.Middleware)
			r.Get("/login", d.Auth.LoginPage)
			r.Post("/login", d.Auth.LoginSubmit)
		})
		r.Post("/logout", d.Auth.Logout)

		// 2FA pages require auth but not completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(d.LoginLimiter.Middleware)
			r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
			r.Post("/2fa/setup", d.Auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", d.Admin.Dashboard)
			r.Get("/dashboard", d.Admin.Dashboard)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", d.Admin.PostsList)
				r.Get("/new", d.Admin.PostNew)
				r.Post("/", d.Admin.PostCreate)
				r.Get("/{id}", d.Admin.PostEdit)
				r.Post("/{id}", d.Admin.PostUpdate)
				r.Post("/{id}/delete", d.Admin.PostDelete)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", d.Admin.MediaLibrary)
				r.Post("/", d.Admin.MediaUpload)
				r.Get("/{id}/file", d.Admin.MediaServe)
				r.Post("/{id}", d.Admin.MediaUpdateAlt)
				r.Post("/{id}/delete", d.Admin.MediaDelete)
			})

			r.Route("/inbox", func(r chi.Router) {
				r.Get("/", d.Admin.InboxList)
				r.Get("/{id}", d.Admin.MessageView)
				r.Post("/{id}/delete", d.Admin.MessageDelete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", d.Admin.ProjectsList)
				r.Get("/new", d.Admin.ProjectNew)
				r.Post("/", d.Admin.ProjectCreate)
				r.Get("/{id}", d.Admin.ProjectEdit)
				r.Post("/{id}", d.Admin.ProjectUpdate)
				r.Post("/{id}/delete", d.Admin.ProjectDelete)
			})

			r.Route("/resume", func(r chi.Router) {
				r.Get("/", d.Admin.ResumeAdmin)
				r.Post("/experience", d.Admin.ExperienceCreate)
				r.Post("/experience/{id}/delete", d.Admin.ExperienceDelete)
				r.Post("/skills", d.Admin.SkillCreate)
				r.Post("/skills/{id}/delete", d.Admin.SkillDelete)
			})

			r.Get("/settings", d.Admin.SettingsPage)
			r.Post("/settings", d.Admin.SettingsSave)

			// User management is admin role only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", d.Admin.UsersList)
				r.Post("/", d.Admin.UserCreate)
				r.Post("/{id}/reset-2fa", d.Admin.UserResetTwoFA)
			})
		})
	})

	// Public routes.
	r.Get("/", d.Public.Home)
	r.Get("/blog", d.Public.Blog)
	r.Get("/blog/tag/{slug}", d.Public.BlogTag)
	r.Get("/blog/{slug}", d.Public.Post)
	r.Get("/projects", d.Public.Projects)
	r.Get("/resume", d.Public.Resume)
	r.Get("/search", d.Public.Search)
	r.Get("/feed.xml", d.Public.Feed)
	r.Get("/sitemap.xml", d.Public.Sitemap)
	r.Get("/media/{id}", d.Public.MediaFile)

	r.Get("/contact", d.Contact.Page)
	r.With(d.ContactLimiter.Middleware).Post("/contact", d.Contact.Submit)

	r.NotFound(d.Public.NotFound)

	return r
}
