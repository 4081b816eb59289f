// Package rssnews implements a keyless news adapter over public finance RSS
// feeds. It backs deployments that run without any paid provider keys.
package rssnews

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/finpulse/finpulse/internal/classify"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const providerName = "rss"

// DefaultFeeds lists broad finance feeds used when the config names none.
var DefaultFeeds = []string{
	"https://feeds.marketwatch.com/marketwatch/topstories/",
	"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	"https://oilprice.com/rss/main",
}

// Adapter fetches and normalizes articles from a set of RSS feeds.
type Adapter struct {
	Feeds  []string
	parser *gofeed.Parser
}

// New builds an RSS adapter over the given feed URLs. An empty list falls
// back to DefaultFeeds.
func New(feeds []string) *Adapter {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	return &Adapter{Feeds: feeds, parser: gofeed.NewParser()}
}

func (a *Adapter) Name() string { return providerName }

// Fetch parses every configured feed, skipping feeds that fail. The batch is
// an error only when every feed fails.
func (a *Adapter) Fetch(ctx context.Context, limit int) provider.NewsBatch {
	var articles []models.NormalizedArticle
	var lastErr error
	failed := 0

	for _, feedURL := range a.Feeds {
		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		source := strings.TrimSpace(feed.Title)
		if source == "" {
			source = feedURL
		}
		items := feed.Items
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		for _, item := range items {
			if item.Link == "" && item.Title == "" {
				continue
			}
			summary := cleanHTML(item.Description)
			date := utils.TodayUTC()
			if item.PublishedParsed != nil {
				date = item.PublishedParsed.UTC().Format(utils.DateFormat)
			} else if item.UpdatedParsed != nil {
				date = item.UpdatedParsed.UTC().Format(utils.DateFormat)
			}
			key := item.Link
			if key == "" {
				key = item.Title
			}
			articles = append(articles, models.NormalizedArticle{
				ID:       utils.ArticleID(providerName, key),
				Title:    item.Title,
				Summary:  summary,
				Source:   "RSS: " + source,
				URL:      item.Link,
				Date:     date,
				Category: classify.Categorize(item.Title, summary),
			})
		}
	}

	if failed == len(a.Feeds) && lastErr != nil {
		return provider.Failed(providerName, lastErr)
	}
	return provider.OK(providerName, articles)
}

// cleanHTML strips HTML tags from feed descriptions using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
