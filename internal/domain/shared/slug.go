package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated and user-supplied slugs
const MaxSlugLength = 120

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsValidSlug reports whether s is a lowercase hyphenated slug
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Slugify derives a URL-safe slug from a display name.
// Diacritics are folded to their ASCII base letters ("Café Crème" -> "cafe-creme").
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	slug := slugSeparator.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// ValidateSlug returns an INVALID_SLUG domain error for malformed slugs
func ValidateSlug(slug string) error {
	if !IsValidSlug(slug) {
		return NewDomainError("INVALID_SLUG", "Slug must contain lowercase letters, digits and single hyphens")
	}
	return nil
}
