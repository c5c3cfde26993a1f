package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRichText(t *testing.T) {
	assert.Equal(t, "", RichText("   "))
	assert.Equal(t, "<p><strong>Bold</strong> and <em>italic</em></p>", RichText("<p><strong>Bold</strong> and <em>italic</em></p>"))
	assert.Equal(t, "<p>Hello</p>", RichText("<p>Hello</p><script>alert('xss')</script>"))
	assert.NotContains(t, RichText(`<a href="javascript:alert(1)">x</a>`), "javascript:")
	assert.Contains(t, RichText(`<a href="https://example.com">Link</a>`), "https://example.com")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("<b>Hello</b> <i>world</i> "))
	assert.Equal(t, "", PlainText("<script>alert(1)</script>"))
}
