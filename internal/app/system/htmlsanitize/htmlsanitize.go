// Package htmlsanitize strips markup from user-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag and attribute.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all HTML removed and surrounding space trimmed.
// Entities produced by the policy are decoded again so "O'Brien" and
// "A & B" round-trip unchanged.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextPtr applies PlainText to a non-nil pointer and returns a new pointer.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	return &v
}
