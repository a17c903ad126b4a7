package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

// DefaultLocale is used when a request does not name one
const DefaultLocale = "en"

// NormalizeLocale parses a BCP-47 tag and returns its canonical form ("en-us" -> "en-US")
func NormalizeLocale(locale string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", shared.NewDomainError("INVALID_LOCALE", "Locale cannot be empty")
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", shared.NewDomainError("INVALID_LOCALE", "Invalid locale: "+locale)
	}
	return tag.String(), nil
}

// LocaleMatcher picks the best supported locale for a requested one
type LocaleMatcher struct {
	supported []string
	matcher   language.Matcher
}

// NewLocaleMatcher builds a matcher; the first supported locale is the fallback
func NewLocaleMatcher(supported []string) *LocaleMatcher {
	if len(supported) == 0 {
		supported = []string{DefaultLocale}
	}
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, tag.String())
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		names = []string{DefaultLocale}
	}
	return &LocaleMatcher{supported: names, matcher: language.NewMatcher(tags)}
}

// Match returns the supported locale closest to requested (an Accept-Language value or a plain tag)
func (m *LocaleMatcher) Match(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return m.supported[0]
	}
	tags, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(tags) == 0 {
		return m.supported[0]
	}
	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No {
		return m.supported[0]
	}
	return m.supported[idx]
}

// IsSupported reports whether locale normalizes to one of the supported locales
func (m *LocaleMatcher) IsSupported(locale string) bool {
	normalized, err := NormalizeLocale(locale)
	if err != nil {
		return false
	}
	for _, s := range m.supported {
		if s == normalized {
			return true
		}
	}
	return false
}

// Default returns the fallback locale
func (m *LocaleMatcher) Default() string {
	return m.supported[0]
}

// Supported returns the configured locales in canonical form
func (m *LocaleMatcher) Supported() []string {
	out := make([]string, len(m.supported))
	copy(out, m.supported)
	return out
}
