package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer implements domain.Sanitizer with bluemonday. Titles are
// stripped to plain text; descriptions keep the tags the UGC policy allows.
type HTMLSanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func NewHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

func (s *HTMLSanitizer) SanitizeTitle(text string) string {
	return strings.TrimSpace(s.strict.Sanitize(text))
}

func (s *HTMLSanitizer) SanitizeDescription(text string) string {
	return strings.TrimSpace(s.ugc.Sanitize(text))
}
