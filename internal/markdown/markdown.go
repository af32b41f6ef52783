// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders post and project bodies from Markdown to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// converter is shared across requests; goldmark converters are safe for
// concurrent use.
var converter = newConverter()

func newConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			// GFM covers tables, strikethrough, autolinks and task lists.
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			// Heading IDs give posts linkable section anchors.
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML passes through so content written before the
			// Markdown editor still renders. Bodies are author-supplied,
			// never visitor-supplied.
			html.WithUnsafe(),
		),
	)
}

// ToHTML renders Markdown source to HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
