package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasic(t *testing.T) {
	out, err := ToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<h1 id=\"title\">Title</h1>") {
		t.Errorf("missing heading with auto id: %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing bold: %q", out)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	out, err := ToHTML(`<div class="legacy">kept</div>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, `<div class="legacy">kept</div>`) {
		t.Errorf("raw HTML was not passed through: %q", out)
	}
}

func TestToHTMLCodeHighlighting(t *testing.T) {
	out, err := ToHTML("```go\nfmt.Println(\"hi\")\n```")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	// Chroma emits inline-styled pre blocks for highlighted code.
	if !strings.Contains(out, "<pre") {
		t.Errorf("code block not rendered: %q", out)
	}
}
