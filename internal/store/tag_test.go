// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"inkpress/internal/models"
)

func TestTagStoreReplaceForPost(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	tags := NewTagStore(db)
	author := testUser(t, db, "tag-replace@store-test.local")

	slug := "test-tag-replace"
	t.Cleanup(func() {
		cleanPosts(t, db, slug)
		cleanTags(t, db, "go", "postgres", "valkey")
	})

	post, err := posts.Create(&models.Post{
		Title: "Tagged Post", Slug: slug,
		Status: models.PostStatusDraft, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}

	// Duplicates and blanks collapse.
	err = tags.ReplaceForPost(post.ID, []string{"Go", "Postgres", " go ", ""})
	if err != nil {
		t.Fatalf("ReplaceForPost: %v", err)
	}

	list, err := tags.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(list))
	}

	// Replacing swaps the whole set.
	if err := tags.ReplaceForPost(post.ID, []string{"Valkey"}); err != nil {
		t.Fatalf("ReplaceForPost swap: %v", err)
	}
	list, err = tags.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if len(list) != 1 || list[0].Slug != "valkey" {
		t.Fatalf("expected single valkey tag, got %+v", list)
	}
}

func TestTagStoreListWithCountsOnlyVisible(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	tags := NewTagStore(db)
	author := testUser(t, db, "tag-counts@store-test.local")

	pubSlug := "test-tag-counts-pub"
	draftSlug := "test-tag-counts-draft"
	t.Cleanup(func() {
		cleanPosts(t, db, pubSlug, draftSlug)
		cleanTags(t, db, "countme", "hideme")
	})

	now := time.Now().Add(-time.Minute)
	pub, err := posts.Create(&models.Post{
		Title: "Counted", Slug: pubSlug,
		Status: models.PostStatusPublished, PublishedAt: &now, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create published: %v", err)
	}
	draft, err := posts.Create(&models.Post{
		Title: "Hidden", Slug: draftSlug,
		Status: models.PostStatusDraft, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	if err := tags.ReplaceForPost(pub.ID, []string{"countme"}); err != nil {
		t.Fatalf("tag published: %v", err)
	}
	if err := tags.ReplaceForPost(draft.ID, []string{"hideme"}); err != nil {
		t.Fatalf("tag draft: %v", err)
	}

	counts, err := tags.ListWithCounts()
	if err != nil {
		t.Fatalf("ListWithCounts: %v", err)
	}

	found := map[string]int{}
	for _, tag := range counts {
		found[tag.Slug] = tag.PostCount
	}
	if found["countme"] != 1 {
		t.Errorf("countme: got %d, want 1", found["countme"])
	}
	if _, ok := found["hideme"]; ok {
		t.Error("tag with only draft posts should be omitted")
	}
}

func TestTagStoreCascadeOnPostDelete(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	tags := NewTagStore(db)
	author := testUser(t, db, "tag-cascade@store-test.local")

	slug := "test-tag-cascade"
	t.Cleanup(func() {
		cleanPosts(t, db, slug)
		cleanTags(t, db, "orphan")
	})

	post, err := posts.Create(&models.Post{
		Title: "Doomed", Slug: slug,
		Status: models.PostStatusDraft, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := tags.ReplaceForPost(post.ID, []string{"orphan"}); err != nil {
		t.Fatalf("ReplaceForPost: %v", err)
	}

	if err := posts.Delete(post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var links int
	err = db.QueryRow(`SELECT COUNT(*) FROM post_tags WHERE post_id = $1`, post.ID).Scan(&links)
	if err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected cascade to remove links, got %d", links)
	}
}
