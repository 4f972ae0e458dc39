package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[cheap pills](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "cheap pills</a>")
	assert.Contains(t, result, `rel="nofollow"`)
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesEventHandler(t *testing.T) {
	result := RenderMarkdown(`<img src="x.png" onerror="alert(1)">`)
	assert.NotContains(t, result, "onerror")
}

func TestRenderMarkdown_GFMAutolink(t *testing.T) {
	result := RenderMarkdown("visit https://spam.example now")
	assert.Contains(t, result, `href="https://spam.example"`)
}

func TestSanitizeTextField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain key", "sk-abc123", "sk-abc123"},
		{"surrounding whitespace", "  sk-abc123 \n", "sk-abc123"},
		{"tags stripped", "<b>sk-abc</b>123", "sk-abc123"},
		{"script removed", "sk-<script>alert(1)</script>abc", "sk-abc"},
		{"inner whitespace collapsed", "a \t\n b", "a b"},
		{"entities preserved as text", "a&b", "a&b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTextField(tt.input))
		})
	}
}
