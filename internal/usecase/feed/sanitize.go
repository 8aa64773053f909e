package feed

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every HTML element; it is safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// sanitize removes markup from user text and trims it.
// bluemonday escapes entities in its output, so they are unescaped back to plain text.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
