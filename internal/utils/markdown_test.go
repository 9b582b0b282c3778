package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Title\n\nsome **bold** text")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderMarkdownStripsScript(t *testing.T) {
	out := RenderMarkdown("hello <script>alert(1)</script> world")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "plain comment", SanitizeText("plain comment"))
	assert.NotContains(t, SanitizeText(`<img src=x onerror=alert(1)>note`), "<img")
	assert.Equal(t, "bold", SanitizeText("<b>bold</b>"))
}
