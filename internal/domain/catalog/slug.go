package catalog

import (
	"strings"
	"unicode"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 200

// Slugify lower-cases s, strips diacritics and joins letter/digit runs with '-'.
// Non-Latin letters are kept as-is.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if rs := []rune(out); len(rs) > maxSlugLength {
		out = strings.TrimSuffix(string(rs[:maxSlugLength]), "-")
	}
	return out
}

// ValidateSlug checks a caller-supplied slug
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len([]rune(slug)) > maxSlugLength {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}
	if Slugify(slug) != slug {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lower-case letters, digits and single dashes")
	}
	return nil
}
