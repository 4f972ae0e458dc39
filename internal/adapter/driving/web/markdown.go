package web

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	textStripper  *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	textStripper = bluemonday.StrictPolicy()
}

// RenderMarkdown converts a comment body to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// sanitizeTextField reduces form input to a single line of plain text: tags
// are stripped, runs of whitespace collapse to one space, and the result is
// trimmed.
func sanitizeTextField(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(textStripper.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}
