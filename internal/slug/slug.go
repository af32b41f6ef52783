// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL path segments from titles.
package slug

import (
	"fmt"
	"strings"
)

// Generate lowercases the input and reduces it to [a-z0-9-]. Runs of
// spaces and hyphens become a single hyphen; anything else is dropped.
// "Hello, World! 2026" becomes "hello-world-2026".
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-':
			pendingSep = true
		}
	}
	return b.String()
}

// Unique returns base if taken(base) is false, otherwise tries numbered
// suffixes ("base-2", "base-3", ...) until a free slug is found. The slug
// column's unique constraint remains the source of truth; this helper just
// avoids the common collision before insert.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
