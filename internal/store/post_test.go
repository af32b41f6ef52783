// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-create@store-test.local")

	slug := "test-post-create"
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title:    "Test Post Create",
		Slug:     slug,
		Body:     "Hello **world**.",
		Status:   models.PostStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status: got %q, want draft", created.Status)
	}
	if created.PublishedAt != nil {
		t.Error("draft should not get a published_at")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Slug != slug {
		t.Fatalf("FindByID: got %+v", found)
	}
}

func TestPostStorePublishSetsTimestamp(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-publish@store-test.local")

	slug := "test-post-publish"
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title:    "Published Post",
		Slug:     slug,
		Status:   models.PostStatusPublished,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatal("publishing without a timestamp should set published_at")
	}
}

func TestPostStoreVisibility(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-visibility@store-test.local")

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		slug    string
		status  models.PostStatus
		pubAt   *time.Time
		visible bool
	}{
		{"test-vis-draft", models.PostStatusDraft, nil, false},
		{"test-vis-published", models.PostStatusPublished, &past, true},
		{"test-vis-scheduled-due", models.PostStatusScheduled, &past, true},
		{"test-vis-scheduled-future", models.PostStatusScheduled, &future, false},
		{"test-vis-archived", models.PostStatusArchived, &past, false},
	}

	for _, tc := range cases {
		t.Cleanup(func() { cleanPosts(t, db, tc.slug) })
		_, err := s.Create(&models.Post{
			Title:       "Visibility " + tc.slug,
			Slug:        tc.slug,
			Status:      tc.status,
			PublishedAt: tc.pubAt,
			AuthorID:    author.ID,
		})
		if err != nil {
			t.Fatalf("Create %s: %v", tc.slug, err)
		}
	}

	for _, tc := range cases {
		p, err := s.FindVisibleBySlug(tc.slug)
		if err != nil {
			t.Fatalf("FindVisibleBySlug %s: %v", tc.slug, err)
		}
		if got := p != nil; got != tc.visible {
			t.Errorf("%s (%s): visible=%v, want %v", tc.slug, tc.status, got, tc.visible)
		}
	}
}

func TestPostStoreSearchRanksTitleFirst(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-search@store-test.local")

	now := time.Now().Add(-time.Minute)
	titleSlug := "test-search-title-hit"
	bodySlug := "test-search-body-hit"
	t.Cleanup(func() { cleanPosts(t, db, titleSlug, bodySlug) })

	// Body match created later so recency alone would rank it first.
	for _, p := range []*models.Post{
		{Title: "All About Xylophones", Slug: titleSlug, Body: "An instrument.",
			Status: models.PostStatusPublished, PublishedAt: &now, AuthorID: author.ID},
		{Title: "Weekend Notes", Slug: bodySlug, Body: "I heard a xylophone at the market.",
			Status: models.PostStatusPublished, PublishedAt: &now, AuthorID: author.ID},
	} {
		if _, err := s.Create(p); err != nil {
			t.Fatalf("Create %s: %v", p.Slug, err)
		}
	}

	results, err := s.Search("xylophone", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected both posts, got %d", len(results))
	}
	if results[0].Slug != titleSlug {
		t.Errorf("title match should rank first, got %q", results[0].Slug)
	}

	// Case-insensitive.
	results, err = s.Search("XYLOPHONE", 10)
	if err != nil {
		t.Fatalf("Search upper: %v", err)
	}
	if len(results) < 2 {
		t.Errorf("ILIKE search should be case-insensitive, got %d results", len(results))
	}

	// Empty query returns nothing.
	results, err = s.Search("", 10)
	if err != nil {
		t.Fatalf("Search empty: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query: expected no results, got %d", len(results))
	}
}

func TestPostStoreSearchExcludesDrafts(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-search-draft@store-test.local")

	slug := "test-search-draft-only"
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	_, err := s.Create(&models.Post{
		Title:    "Secret Quokka Research",
		Slug:     slug,
		Status:   models.PostStatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	results, err := s.Search("quokka", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, p := range results {
		if p.Slug == slug {
			t.Error("draft post leaked into search results")
		}
	}
}

func TestPostStoreSlugExists(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-slugexists@store-test.local")

	slug := "test-slug-exists"
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title: "Slug Exists", Slug: slug,
		Status: models.PostStatusDraft, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := s.SlugExists(slug, uuid.Nil)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}

	// The post itself is excluded when editing.
	exists, err = s.SlugExists(slug, created.ID)
	if err != nil {
		t.Fatalf("SlugExists exclude: %v", err)
	}
	if exists {
		t.Error("slug should not conflict with the post being edited")
	}
}

func TestPostStoreUpdateAndDelete(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testUser(t, db, "post-update@store-test.local")

	slug := "test-post-update"
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title: "Before", Slug: slug,
		Status: models.PostStatusDraft, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Title = "After"
	created.Status = models.PostStatusPublished
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Title != "After" {
		t.Errorf("title: got %q, want %q", found.Title, "After")
	}
	if found.PublishedAt == nil {
		t.Error("publishing via Update should set published_at")
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if found != nil {
		t.Error("expected nil after delete")
	}
}
