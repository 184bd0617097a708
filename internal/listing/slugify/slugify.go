// Package slugify derives URL slugs for translation rows.
package slugify

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// Slug lower-cases and trims s, strips everything outside word characters,
// whitespace and hyphens, collapses separator runs into single hyphens and
// trims leading/trailing hyphens. It is deterministic and idempotent:
// Slug(Slug(s)) == Slug(s).
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
