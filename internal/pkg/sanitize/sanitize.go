// Package sanitize cleans user supplied text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// RichText keeps the safe formatting subset used by forum posts and replies
func RichText(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText strips all markup
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
