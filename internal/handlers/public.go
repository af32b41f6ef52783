// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/feeds"
	"inkpress/internal/models"
	"inkpress/internal/render"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

// postsPerPage is the blog listing page size.
const postsPerPage = 10

// Public groups handlers for the public-facing site. Anonymous GET pages
// are checked against the Valkey full-page cache before rendering, and
// stored there on miss. Admin mutations invalidate the affected keys.
type Public struct {
	renderer      *render.Renderer
	pageCache     *cache.PageCache
	posts         *store.PostStore
	tags          *store.TagStore
	projects      *store.ProjectStore
	resume        *store.ResumeStore
	settings      *store.SiteSettingStore
	media         *store.MediaStore
	storageClient *storage.Client
}

// NewPublic creates a new Public handler group. storageClient may be nil
// if S3 is not configured.
func NewPublic(renderer *render.Renderer, pageCache *cache.PageCache, posts *store.PostStore, tags *store.TagStore, projects *store.ProjectStore, resume *store.ResumeStore, settings *store.SiteSettingStore, media *store.MediaStore, storageClient *storage.Client) *Public {
	return &Public{
		renderer:      renderer,
		pageCache:     pageCache,
		posts:         posts,
		tags:          tags,
		projects:      projects,
		resume:        resume,
		settings:      settings,
		media:         media,
		storageClient: storageClient,
	}
}

// siteSettings loads the settings map for the base template. Failures are
// logged and the page renders with defaults rather than erroring out.
func (p *Public) siteSettings() models.SiteSettings {
	settings, err := p.settings.All()
	if err != nil {
		slog.Error("load site settings failed", "error", err)
		return models.SiteSettings{}
	}
	return settings
}

// captureWriter tees the response body so successful pages can be stored
// in the page cache after rendering.
type captureWriter struct {
	http.ResponseWriter
	buf         bytes.Buffer
	status      int
	contentType string
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.contentType = cw.Header().Get("Content-Type")
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.WriteHeader(http.StatusOK)
	}
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// cached serves the page from the Valkey cache when possible, otherwise
// renders via build and stores the result. Only 200 responses are cached.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, key, contentType string, build http.HandlerFunc) {
	ctx := r.Context()
	if body, ok := p.pageCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", contentType)
		w.Write(body)
		return
	}

	cw := &captureWriter{ResponseWriter: w}
	build(cw, r)
	if cw.status == http.StatusOK {
		p.pageCache.Set(ctx, key, cw.buf.Bytes())
	}
}

// Home renders the homepage: recent posts plus featured projects.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.HomeKey, "text/html; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		posts, err := p.posts.ListVisible(5, 0)
		if err != nil {
			slog.Error("list recent posts failed", "error", err)
		}
		featured, err := p.projects.ListFeatured(3)
		if err != nil {
			slog.Error("list featured projects failed", "error", err)
		}

		p.renderer.Page(w, r, "public/home", &render.PageData{
			Section:  "home",
			Settings: p.siteSettings(),
			Data: map[string]any{
				"Posts":            posts,
				"FeaturedProjects": featured,
			},
		})
	})
}

// Blog renders the paginated post listing. Only the first page is cached;
// deeper pages are rare enough to render every time.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	if page == 1 {
		p.cached(w, r, cache.BlogKey, "text/html; charset=utf-8", p.blogPage)
		return
	}
	p.blogPage(w, r)
}

func (p *Public) blogPage(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	offset := (page - 1) * postsPerPage

	posts, err := p.posts.ListVisible(postsPerPage, offset)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	total, err := p.posts.CountVisible()
	if err != nil {
		slog.Error("count posts failed", "error", err)
	}
	tags, err := p.tags.ListWithCounts()
	if err != nil {
		slog.Error("list tag counts failed", "error", err)
	}

	data := map[string]any{
		"Posts": posts,
		"Tags":  tags,
	}
	if page > 1 {
		data["PrevPage"] = page - 1
	}
	if total > page*postsPerPage {
		data["NextPage"] = page + 1
	}

	p.renderer.Page(w, r, "public/blog", &render.PageData{
		Title:    "Blog",
		Section:  "blog",
		Settings: p.siteSettings(),
		Data:     data,
	})
}

// BlogTag renders the post listing filtered by tag slug.
func (p *Public) BlogTag(w http.ResponseWriter, r *http.Request) {
	tagSlug := chi.URLParam(r, "slug")
	p.cached(w, r, cache.TagKey(tagSlug), "text/html; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		tag, err := p.tags.FindBySlug(tagSlug)
		if err != nil {
			slog.Error("find tag failed", "error", err, "slug", tagSlug)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if tag == nil {
			p.NotFound(w, r)
			return
		}

		posts, err := p.posts.ListVisibleByTag(tagSlug, postsPerPage, 0)
		if err != nil {
			slog.Error("list posts by tag failed", "error", err, "slug", tagSlug)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		p.renderer.Page(w, r, "public/blog", &render.PageData{
			Title:    tag.Name,
			Section:  "blog",
			Settings: p.siteSettings(),
			Data: map[string]any{
				"Tag":   tag,
				"Posts": posts,
			},
		})
	})
}

// featuredImage carries a resolved featured image for the post template.
type featuredImage struct {
	Media  *models.Media
	URL    string
	Srcset string
}

// Post renders a single blog post by slug. Invisible posts (drafts,
// archived, not-yet-due scheduled) render the 404 page.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")
	p.cached(w, r, cache.PostKey(postSlug), "text/html; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		post, err := p.posts.FindVisibleBySlug(postSlug)
		if err != nil {
			slog.Error("find post failed", "error", err, "slug", postSlug)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			p.NotFound(w, r)
			return
		}

		tags, err := p.tags.ListForPost(post.ID)
		if err != nil {
			slog.Error("list post tags failed", "error", err)
		}
		post.Tags = tags

		data := map[string]any{"Post": post}
		if img := p.resolveFeaturedImage(post.FeaturedImageID); img != nil {
			data["FeaturedImage"] = img
		}

		metaDesc := ""
		if post.MetaDescription != nil {
			metaDesc = *post.MetaDescription
		}
		data["MetaDescription"] = metaDesc

		p.renderer.Page(w, r, "public/post", &render.PageData{
			Title:    post.Title,
			Section:  "blog",
			Settings: p.siteSettings(),
			Data:     data,
		})
	})
}

// resolveFeaturedImage builds the URL and srcset for a post's featured
// image. Returns nil when the post has none or S3 is not configured.
func (p *Public) resolveFeaturedImage(mediaID *uuid.UUID) *featuredImage {
	if mediaID == nil || p.storageClient == nil {
		return nil
	}

	media, err := p.media.FindByID(*mediaID)
	if err != nil || media == nil {
		return nil
	}

	img := &featuredImage{
		Media: media,
		URL:   p.storageClient.FileURL(media.S3Key),
	}

	variants, err := p.media.VariantsFor(media.ID)
	if err == nil && len(variants) > 0 {
		parts := make([]string, 0, len(variants))
		for _, v := range variants {
			parts = append(parts, p.storageClient.FileURL(v.S3Key)+" "+strconv.Itoa(v.Width)+"w")
		}
		img.Srcset = strings.Join(parts, ", ")
		// Prefer the largest variant as the fallback src.
		img.URL = p.storageClient.FileURL(variants[len(variants)-1].S3Key)
	}

	return img
}

// Projects renders the portfolio listing.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.ProjectsKey, "text/html; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		projects, err := p.projects.List()
		if err != nil {
			slog.Error("list projects failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		p.renderer.Page(w, r, "public/projects", &render.PageData{
			Title:    "Projects",
			Section:  "projects",
			Settings: p.siteSettings(),
			Data:     map[string]any{"Projects": projects},
		})
	})
}

// skillGroup clusters skills by category for the resume template.
type skillGroup struct {
	Category string
	Skills   []models.Skill
}

// Resume renders the experience and skills page.
func (p *Public) Resume(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.ResumeKey, "text/html; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		experience, err := p.resume.ListExperience()
		if err != nil {
			slog.Error("list experience failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		skills, err := p.resume.ListSkills()
		if err != nil {
			slog.Error("list skills failed", "error", err)
		}

		// Skills arrive sorted by category, so grouping is a single pass.
		var groups []skillGroup
		for _, sk := range skills {
			if len(groups) == 0 || groups[len(groups)-1].Category != sk.Category {
				groups = append(groups, skillGroup{Category: sk.Category})
			}
			groups[len(groups)-1].Skills = append(groups[len(groups)-1].Skills, sk)
		}

		p.renderer.Page(w, r, "public/resume", &render.PageData{
			Title:    "Resume",
			Section:  "resume",
			Settings: p.siteSettings(),
			Data: map[string]any{
				"Experience":  experience,
				"SkillGroups": groups,
			},
		})
	})
}

// Search renders the search page with results for ?q=. Results are never
// cached; queries are too varied to be worth the keys.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var results []models.Post
	if query != "" {
		var err error
		results, err = p.posts.Search(query, 50)
		if err != nil {
			slog.Error("search failed", "error", err, "query", query)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	p.renderer.Page(w, r, "public/search", &render.PageData{
		Title:    "Search",
		Section:  "search",
		Settings: p.siteSettings(),
		Data: map[string]any{
			"Query":   query,
			"Results": results,
		},
	})
}

// Feed serves the RSS 2.0 feed of published posts.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.FeedKey, "application/rss+xml; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		posts, err := p.posts.ListVisible(20, 0)
		if err != nil {
			slog.Error("list posts for feed failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		settings := p.siteSettings()
		xml, err := feeds.RSS(
			settings.Get(models.SettingSiteTitle, "Inkpress"),
			settings.Get(models.SettingSiteDescription, ""),
			settings.Get(models.SettingBaseURL, "http://localhost:8080"),
			posts,
		)
		if err != nil {
			slog.Error("build rss failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.Write(xml)
	})
}

// Sitemap serves sitemap.xml with the static pages, posts, and projects.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.SitemapKey, "application/xml; charset=utf-8", func(w http.ResponseWriter, r *http.Request) {
		posts, err := p.posts.ListVisible(1000, 0)
		if err != nil {
			slog.Error("list posts for sitemap failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		projects, err := p.projects.List()
		if err != nil {
			slog.Error("list projects for sitemap failed", "error", err)
		}

		settings := p.siteSettings()
		xml, err := feeds.Sitemap(settings.Get(models.SettingBaseURL, "http://localhost:8080"), posts, projects)
		if err != nil {
			slog.Error("build sitemap failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(xml)
	})
}

// MediaFile redirects to the public URL of an uploaded file.
func (p *Public) MediaFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		p.NotFound(w, r)
		return
	}

	media, err := p.media.FindByID(id)
	if err != nil {
		slog.Error("find media failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if media == nil || p.storageClient == nil {
		p.NotFound(w, r)
		return
	}

	http.Redirect(w, r, p.storageClient.FileURL(media.S3Key), http.StatusFound)
}

// Health reports liveness for load balancers and uptime checks.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// NotFound renders the styled 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.PageStatus(w, r, "public/notfound", http.StatusNotFound, &render.PageData{
		Title:    "Page not found",
		Settings: p.siteSettings(),
	})
}

// pageParam parses ?page= with a floor of 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
