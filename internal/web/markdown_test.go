package web

import (
	"strings"
	"testing"
)

func TestRenderMarkdown_Basic(t *testing.T) {
	html, err := renderMarkdown("# Heading\n\nsome *emphasis* here")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Heading</h1>") {
		t.Fatalf("heading missing: %s", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Fatalf("emphasis missing: %s", html)
	}
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	html, err := renderMarkdown("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw html must not pass through: %s", html)
	}
}

func TestRenderMarkdown_HighlightsFencedCode(t *testing.T) {
	src := "```go\npackage main\n```\n"
	html, err := renderMarkdown(src)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Inline styles, no stylesheet needed.
	if !strings.Contains(html, "style=") {
		t.Fatalf("expected inline highlight styles: %s", html)
	}
	if !strings.Contains(html, "package") || !strings.Contains(html, "main") {
		t.Fatalf("code content missing: %s", html)
	}
}

func TestRenderMarkdown_UnknownLanguageFallsBack(t *testing.T) {
	src := "```nosuchlang\nplain text\n```\n"
	html, err := renderMarkdown(src)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "plain text") {
		t.Fatalf("code content missing: %s", html)
	}
}
