// Package marketaux implements the Marketaux global finance news adapter.
// Marketaux aggregates market news with entity tagging (symbols, industries).
//
// Requires an API token from https://www.marketaux.com.
// Free tier returns at most 3 articles per request.
// Docs: https://www.marketaux.com/documentation
package marketaux

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finpulse/finpulse/internal/classify"
	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const (
	providerName = "marketaux"
	defaultURL   = "https://api.marketaux.com/v1/news/all"

	// freeTierLimit caps requests on the free plan.
	freeTierLimit = 3
)

// Adapter fetches recent finance news from /v1/news/all.
type Adapter struct {
	Key      string
	BaseURL  string
	Language string
}

// New builds a Marketaux adapter. An empty key disables the adapter.
func New(key string) *Adapter {
	return &Adapter{Key: key, BaseURL: defaultURL, Language: "en"}
}

func (a *Adapter) Name() string { return providerName }

type newsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Snippet     string `json:"snippet"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
		Source      string `json:"source"`
		Entities    []struct {
			Symbol   string `json:"symbol"`
			Industry string `json:"industry"`
		} `json:"entities"`
	} `json:"data"`
}

// Fetch retrieves up to limit articles (clamped to the free-tier cap) and
// normalizes them. Entity symbols and industries become seed tags.
func (a *Adapter) Fetch(ctx context.Context, limit int) provider.NewsBatch {
	if a.Key == "" {
		return provider.Disabled(providerName)
	}
	if limit <= 0 || limit > freeTierLimit {
		limit = freeTierLimit
	}

	params := url.Values{}
	params.Set("api_token", a.Key)
	params.Set("language", a.Language)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("group_similar", "true")
	params.Set("must_have_entities", "false")
	params.Set("filter_entities", "false")

	var resp newsResponse
	if err := infra.GetJSON(ctx, a.BaseURL, params, nil, &resp); err != nil {
		return provider.Failed(providerName, fmt.Errorf("marketaux news: %w", err))
	}

	articles := make([]models.NormalizedArticle, 0, len(resp.Data))
	for _, raw := range resp.Data {
		if raw.URL == "" && raw.Title == "" {
			continue
		}
		summary := raw.Description
		if summary == "" {
			summary = raw.Snippet
		}
		source := raw.Source
		if source == "" {
			source = "Marketaux"
		}

		var seed []string
		for _, ent := range raw.Entities {
			if ent.Symbol != "" {
				seed = append(seed, ent.Symbol)
			}
			if ent.Industry != "" {
				seed = append(seed, ent.Industry)
			}
		}

		key := raw.URL
		if key == "" {
			key = raw.Title
		}
		articles = append(articles, models.NormalizedArticle{
			ID:       utils.ArticleID(providerName, key),
			Title:    raw.Title,
			Summary:  summary,
			Source:   "Marketaux: " + source,
			URL:      raw.URL,
			Date:     utils.DateFromISO(raw.PublishedAt),
			Category: classify.Categorize(raw.Title, summary),
			Tags:     seed,
		})
	}
	return provider.OK(providerName, articles)
}
