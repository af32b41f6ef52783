// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feeds builds the RSS 2.0 feed and XML sitemap for the public site.
package feeds

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"inkpress/internal/models"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RSS renders an RSS 2.0 feed of the given posts. baseURL is the site's
// canonical origin without a trailing slash.
func RSS(title, description, baseURL string, posts []models.Post) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := base + "/blog/" + p.Slug

		desc := ""
		if p.Excerpt != nil {
			desc = *p.Excerpt
		}

		pubDate := ""
		if p.PublishedAt != nil {
			pubDate = p.PublishedAt.Format(time.RFC1123Z)
		}

		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: desc,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        base,
			Description: description,
			Items:       items,
		},
	}

	return encodeXML(feed)
}

// Sitemap renders an XML sitemap covering the static public pages and all
// visible posts and projects.
func Sitemap(baseURL string, posts []models.Post, projects []models.Project) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	urls := []sitemapURL{
		{Loc: base + "/"},
		{Loc: base + "/blog"},
		{Loc: base + "/projects"},
		{Loc: base + "/resume"},
		{Loc: base + "/contact"},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: base + "/blog/" + p.Slug}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, pr := range projects {
		urls = append(urls, sitemapURL{
			Loc:     base + "/projects#" + pr.Slug,
			LastMod: pr.UpdatedAt.Format("2006-01-02"),
		})
	}

	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

// encodeXML marshals v with the standard XML header prepended.
func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return buf.Bytes(), nil
}
