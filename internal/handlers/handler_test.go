// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkpress/internal/botcheck"
	"inkpress/internal/cache"
	"inkpress/internal/database"
	"inkpress/internal/middleware"
	"inkpress/internal/render"
	"inkpress/internal/session"
	"inkpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB           *sql.DB
	Valkey       *redis.Client
	Renderer     *render.Renderer
	Sessions     *session.Store
	PostStore    *store.PostStore
	TagStore     *store.TagStore
	UserStore    *store.UserStore
	MediaStore   *store.MediaStore
	MessageStore *store.MessageStore
	ProjectStore *store.ProjectStore
	ResumeStore  *store.ResumeStore
	SettingStore *store.SiteSettingStore
	PageCache    *cache.PageCache
	Detector     *botcheck.Detector
	Admin        *Admin
	Auth         *Auth
	Public       *Public
	Contact      *Contact
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Object storage is left nil; media upload tests check
// the disabled path.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	postStore := store.NewPostStore(db)
	tagStore := store.NewTagStore(db)
	userStore := store.NewUserStore(db)
	mediaStore := store.NewMediaStore(db)
	messageStore := store.NewMessageStore(db)
	projectStore := store.NewProjectStore(db)
	resumeStore := store.NewResumeStore(db)
	settingStore := store.NewSiteSettingStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)
	detector := botcheck.New("test-form-secret")

	admin := NewAdmin(renderer, sessions, pageCache, postStore, tagStore, userStore,
		mediaStore, messageStore, projectStore, resumeStore, settingStore, nil)
	auth := NewAuth(renderer, sessions, userStore, settingStore)
	public := NewPublic(renderer, pageCache, postStore, tagStore, projectStore,
		resumeStore, settingStore, mediaStore, nil)
	contact := NewContact(renderer, messageStore, settingStore, detector)

	return &testEnv{
		DB:           db,
		Valkey:       vk,
		Renderer:     renderer,
		Sessions:     sessions,
		PostStore:    postStore,
		TagStore:     tagStore,
		UserStore:    userStore,
		MediaStore:   mediaStore,
		MessageStore: messageStore,
		ProjectStore: projectStore,
		ResumeStore:  resumeStore,
		SettingStore: settingStore,
		PageCache:    pageCache,
		Detector:     detector,
		Admin:        admin,
		Auth:         auth,
		Public:       public,
		Contact:      contact,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and a session.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// testAdminUser creates a user with the given email, removing any
// previous copy first.
func testAdminUser(t *testing.T, env *testEnv, email string) uuid.UUID {
	t.Helper()
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	u, err := env.UserStore.Create(email, "correct-horse-battery", "Test Admin", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return u.ID
}

// cleanPostSlugs removes test posts by slug.
func cleanPostSlugs(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", s)
	}
}

// cleanProjectSlugs removes test projects by slug.
func cleanProjectSlugs(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM projects WHERE slug = $1", s)
	}
}

// cleanMessages removes test messages by sender email.
func cleanMessages(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		db.Exec("DELETE FROM messages WHERE email = $1", e)
	}
}
