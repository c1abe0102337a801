// Package i18n provides the locale type shared by the user-facing text
// generators (emotion summaries, offline fallbacks, reports).
//
// The app ships three locales: Korean (default), English, and Japanese.
// Packages that render text accept a Locale and look their strings up in
// per-package tables; this package only owns the type and parsing.
package i18n

// Locale identifies one of the supported reply languages.
type Locale string

const (
	Korean   Locale = "ko"
	English  Locale = "en"
	Japanese Locale = "ja"
)

// Default is the locale used when none is stored or the stored value is
// unrecognized.
const Default = Korean

// Parse normalizes a stored or user-provided locale string.
// Unknown values fall back to the default locale.
func Parse(s string) Locale {
	switch Locale(s) {
	case Korean, English, Japanese:
		return Locale(s)
	default:
		return Default
	}
}

// OrDefault returns l when it is a supported locale, the default otherwise.
func (l Locale) OrDefault() Locale {
	if l.Valid() {
		return l
	}
	return Default
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	switch l {
	case Korean, English, Japanese:
		return true
	}
	return false
}
