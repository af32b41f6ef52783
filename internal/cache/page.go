// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go is the full-page HTML cache. Rendered public pages are stored
// in Valkey so repeat anonymous requests skip the DB queries and
// template execution entirely; admin writes invalidate the keys they
// affect.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pageKeyPrefix namespaces cached pages away from session keys.
const pageKeyPrefix = "page:"

// DefaultPageTTL bounds staleness for pages whose invalidation was
// missed (a crashed admin request, an external DB edit).
const DefaultPageTTL = 5 * time.Minute

// Well-known cache keys for public pages. Post and tag pages derive their
// keys from slugs via PostKey/TagKey.
const (
	HomeKey     = "_home"
	BlogKey     = "_blog"
	ProjectsKey = "_projects"
	ResumeKey   = "_resume"
	FeedKey     = "_feed"
	SitemapKey  = "_sitemap"
)

// PostKey returns the cache key for a post detail page.
func PostKey(slug string) string { return "post:" + slug }

// TagKey returns the cache key for a tag-filtered blog listing.
func TagKey(slug string) string { return "tag:" + slug }

// PageCache stores rendered pages in Valkey. All methods are
// best-effort: a cache failure logs and degrades to rendering live.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache wraps the given Valkey client. A zero ttl picks
// DefaultPageTTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached page body for key, with ok=false on a miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return body, true
}

// Set caches a rendered page body under key for the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given page keys from the cache.
func (pc *PageCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = pageKeyPrefix + k
	}
	if err := pc.client.Del(ctx, prefixed...).Err(); err != nil {
		slog.Warn("page cache invalidate error", "error", err)
	}
	slog.Debug("page cache invalidated", "keys", keys)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Used when site settings change, since every page embeds them.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
