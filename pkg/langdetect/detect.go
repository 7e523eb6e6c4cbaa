// Package langdetect resolves code fence language tags.
// It uses go-enry's alias table to decide whether an info-string language
// tag names a real language, so the parser can flag typos and the HTML
// renderer only emits classes for recognized tags.
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// KnownAlias reports whether the given fence language tag is a recognized
// language alias, returning the normalized fence tag when it is.
func KnownAlias(alias string) (string, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", false
	}
	lang, ok := enry.GetLanguageByAlias(alias)
	if !ok {
		return "", false
	}
	return Normalize(lang), true
}

// Normalize converts a go-enry language name to a conventional fence tag.
func Normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
