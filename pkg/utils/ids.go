package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ArticleID derives the stable merge key for an article: provider prefix plus
// the first 16 hex characters of sha1 over the URL (or title when the URL is
// absent). Identical stories from the same provider collapse; the same story
// from two providers stays two records.
func ArticleID(provider, urlOrTitle string) string {
	sum := sha1.Sum([]byte(urlOrTitle))
	return provider + ":" + hex.EncodeToString(sum[:])[:16]
}

// NormalizeSymbol strips whitespace and a leading "$" and uppercases.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(symbol), "$"))
}

// IsTickerToken reports whether a tag looks like a ticker: letters only,
// 1–5 chars after an optional leading "$", already uppercase.
func IsTickerToken(tag string) bool {
	raw := strings.TrimPrefix(tag, "$")
	if len(raw) < 1 || len(raw) > 5 {
		return false
	}
	for _, r := range raw {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// CanonicalTicker prefixes a ticker-looking tag with "$" exactly once.
func CanonicalTicker(tag string) string {
	if IsTickerToken(tag) {
		return "$" + strings.TrimPrefix(tag, "$")
	}
	return tag
}
