package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxNameLen     = 200
	maxSubjectLen  = 300
	maxMessageLen  = 10_000
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, slug, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateMetadata checks optional SEO fields.
func validateMetadata(excerpt, metaDesc string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateContact checks contact form inputs and returns the first error found.
func validateContact(name, email, subject, body string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(subject) > maxSubjectLen {
		return "Subject is too long (max 300 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "A message is required."
	}
	if utf8.RuneCountInString(body) > maxMessageLen {
		return "Message is too long (max 10,000 characters)."
	}
	return ""
}

// validateProject checks project form inputs.
func validateProject(title, slug string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	return ""
}
