// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Inkpress server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/botcheck"
	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/render"
	"inkpress/internal/router"
	"inkpress/internal/session"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL and bring the schema up to date.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + full-page cache).
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	tagStore := store.NewTagStore(db)
	mediaStore := store.NewMediaStore(db)
	messageStore := store.NewMessageStore(db)
	projectStore := store.NewProjectStore(db)
	resumeStore := store.NewResumeStore(db)
	settingStore := store.NewSiteSettingStore(db)

	// Object storage is optional; without it the media library runs in
	// read-only mode.
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(storage.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBucket:  cfg.S3BucketPublic,
			PrivateBucket: cfg.S3BucketPrivate,
			PublicURL:     cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"public_bucket", cfg.S3BucketPublic,
				"private_bucket", cfg.S3BucketPrivate,
			)
		}
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	detector := botcheck.New(cfg.FormSecret)

	// Rate limiters: tight on login (credential guessing), looser on the
	// contact form (spam bursts).
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer contactLimiter.Stop()

	// Handler groups.
	publicHandlers := handlers.NewPublic(renderer, pageCache, postStore, tagStore, projectStore, resumeStore, settingStore, mediaStore, storageClient)
	contactHandlers := handlers.NewContact(renderer, messageStore, settingStore, detector)
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore, settingStore)
	adminHandlers := handlers.NewAdmin(renderer, sessionStore, pageCache, postStore, tagStore, userStore, mediaStore, messageStore, projectStore, resumeStore, settingStore, storageClient)

	r := router.New(router.Deps{
		Sessions:       sessionStore,
		Public:         publicHandlers,
		Contact:        contactHandlers,
		Auth:           authHandlers,
		Admin:          adminHandlers,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
		SecureCookies:  secureCookies,
	})

	// WriteTimeout must accommodate media uploads with variant generation.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
