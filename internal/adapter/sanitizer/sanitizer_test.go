package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitleStripsAllMarkup(t *testing.T) {
	s := NewHTMLSanitizer()

	assert.Equal(t, "Spacious flat in Kadıköy", s.SanitizeTitle("<b>Spacious flat</b> in Kadıköy"))
	assert.Equal(t, "", s.SanitizeTitle("<script>alert(1)</script>"))
}

func TestSanitizeDescriptionKeepsSafeTags(t *testing.T) {
	s := NewHTMLSanitizer()

	got := s.SanitizeDescription("<p>Great view</p><script>alert(1)</script>")
	assert.Contains(t, got, "<p>Great view</p>")
	assert.NotContains(t, got, "<script>")
}
