package classify

import (
	"strings"

	"github.com/finpulse/finpulse/pkg/models"
)

// IsRelevant reports whether an article qualifies for the persisted news
// store: its source must substring-match the curated allow-list (after
// stripping the "Provider:" prefix adapters attach) and its category must be
// one of the finance/policy categories. System records never pass here; the
// merge engine preserves them only through its empty-store guard.
func IsRelevant(article models.NormalizedArticle, allowList []string) bool {
	if article.Category == models.CategorySystem {
		return false
	}
	if !validCategory(article.Category) {
		return false
	}
	if len(allowList) == 0 {
		return true
	}

	source := strings.ToLower(article.Source)
	if _, rest, found := strings.Cut(source, ":"); found {
		source = strings.TrimSpace(rest)
	}
	for _, allowed := range allowList {
		if allowed == "" {
			continue
		}
		if strings.Contains(source, strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

func validCategory(c models.Category) bool {
	for _, known := range models.Categories {
		if c == known {
			return true
		}
	}
	return false
}
