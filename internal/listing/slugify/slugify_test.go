package slugify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Clean BMW 320i for sale", "clean-bmw-320i-for-sale"},
		{"underscores and runs", "hello__world   again", "hello-world-again"},
		{"leading and trailing junk", "  --Nice Flat--  ", "nice-flat"},
		{"punctuation stripped", "2+1 Apartment, Cheap!", "21-apartment-cheap"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.input))
		})
	}
}

func TestSlugTurkishTitle(t *testing.T) {
	got := Slug("Caddebostan'da Lüks 3+1 Daire!!")

	assert.NotContains(t, got, "'")
	assert.NotContains(t, got, "!")
	assert.False(t, strings.HasPrefix(got, "-"))
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Clean BMW 320i for sale",
		"  Weird___input -- with   everything! ",
		"Caddebostan'da Lüks 3+1 Daire!!",
		"already-a-slug",
		"",
	}
	for _, s := range inputs {
		once := Slug(s)
		assert.Equal(t, once, Slug(once), "slug must be idempotent for %q", s)
	}
}
