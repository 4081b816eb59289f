// Package alphavantage implements the Alpha Vantage adapter: the
// NEWS_SENTIMENT feed and TIME_SERIES_DAILY price history.
//
// Requires a free API key from https://www.alphavantage.co.
// The free tier throttles aggressively and signals it with "Note" or
// "Information" keys in an otherwise-200 response body.
// Docs: https://www.alphavantage.co/documentation/
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/finpulse/finpulse/internal/classify"
	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const (
	providerName = "alphav"
	defaultURL   = "https://www.alphavantage.co/query"

	seriesTTL = 15 * time.Minute

	// Free-tier quota is 5 requests a minute: a burst of 5 tokens, one
	// refilled every 12 seconds.
	limiterBurst  = 5
	limiterRefill = 12 * time.Second
)

// Adapter serves the news feed and the daily-series lookups.
type Adapter struct {
	Key     string
	BaseURL string

	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// New builds an Alpha Vantage adapter. An empty key disables it.
func New(key string) *Adapter {
	return &Adapter{
		Key:     key,
		BaseURL: defaultURL,
		cache:   infra.NewCache(seriesTTL),
		limiter: infra.NewRateLimiter(limiterBurst, limiterRefill),
	}
}

func (a *Adapter) Name() string { return providerName }

// Enabled reports whether an API key is configured.
func (a *Adapter) Enabled() bool { return a.Key != "" }

// --- News ---

// feedItem tolerates the shape drift Alpha Vantage is known for: source can
// be a string or an object, topics can be strings or objects.
type feedItem struct {
	Title         string          `json:"title"`
	Summary       string          `json:"summary"`
	URL           string          `json:"url"`
	TimePublished string          `json:"time_published"` // 20250811T130000[Z]
	Source        json.RawMessage `json:"source"`
	Topics        json.RawMessage `json:"topics"`
}

type newsResponse struct {
	Feed        []feedItem `json:"feed"`
	Items       []feedItem `json:"items"`
	Note        string     `json:"Note"`
	Information string     `json:"Information"`
}

// Fetch retrieves the financial_markets NEWS_SENTIMENT feed, truncated to
// limit. A throttle notice counts as an error batch so the merge engine
// logs the reason.
func (a *Adapter) Fetch(ctx context.Context, limit int) provider.NewsBatch {
	if a.Key == "" {
		return provider.Disabled(providerName)
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return provider.Failed(providerName, fmt.Errorf("alpha vantage rate limit: %w", err))
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("topics", "financial_markets")
	params.Set("apikey", a.Key)

	var resp newsResponse
	if err := infra.GetJSON(ctx, a.BaseURL, params, nil, &resp); err != nil {
		return provider.Failed(providerName, fmt.Errorf("alpha vantage news: %w", err))
	}

	feed := resp.Feed
	if len(feed) == 0 {
		feed = resp.Items
	}
	if len(feed) == 0 {
		if note := throttleNote(resp.Note, resp.Information); note != "" {
			return provider.Failed(providerName, fmt.Errorf("alpha vantage throttled: %s", note))
		}
	}
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}

	articles := make([]models.NormalizedArticle, 0, len(feed))
	for _, item := range feed {
		if item.URL == "" && item.Title == "" {
			continue
		}
		key := item.URL
		if key == "" {
			key = item.Title
		}
		articles = append(articles, models.NormalizedArticle{
			ID:       utils.ArticleID(providerName, key),
			Title:    item.Title,
			Summary:  item.Summary,
			Source:   "Alpha Vantage: " + sourceName(item.Source),
			URL:      item.URL,
			Date:     utils.DateFromCompact(item.TimePublished),
			Category: classify.Categorize(item.Title, item.Summary),
			Tags:     topicTags(item.Topics),
		})
	}
	return provider.OK(providerName, articles)
}

func throttleNote(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " / "
		}
		out += p
	}
	return out
}

func sourceName(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Name != "" {
		return obj.Name
	}
	return "Alpha Vantage"
}

func topicTags(raw json.RawMessage) []string {
	var strs []string
	if json.Unmarshal(raw, &strs) == nil && len(strs) > 0 {
		return strs
	}
	var objs []struct {
		Topic string `json:"topic"`
	}
	if json.Unmarshal(raw, &objs) == nil {
		var out []string
		for _, o := range objs {
			if o.Topic != "" {
				out = append(out, o.Topic)
			}
		}
		return out
	}
	return nil
}

// --- Daily price series ---

type dailyBar struct {
	Open          string `json:"1. open"`
	High          string `json:"2. high"`
	Low           string `json:"3. low"`
	Close         string `json:"4. close"`
	AdjustedClose string `json:"5. adjusted close"`
	Volume        string `json:"6. volume"`
	VolumeAlt     string `json:"5. volume"`
}

type dailyResponse struct {
	Series      map[string]dailyBar `json:"Time Series (Daily)"`
	Note        string              `json:"Note"`
	Information string              `json:"Information"`
}

// GetDailySeries fetches TIME_SERIES_DAILY for one symbol and returns up to
// limit bars oldest to newest. Results are cached for 15 min per symbol.
func (a *Adapter) GetDailySeries(ctx context.Context, symbol string, limit int) ([]models.Candle, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if a.Key == "" || symbol == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 90
	}

	cacheKey := "daily:" + symbol
	if hit, ok := a.cache.Get(cacheKey); ok {
		return hit.([]models.Candle), nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("alpha vantage rate limit %s: %w", symbol, err)
	}

	outputSize := "compact"
	if limit > 100 {
		outputSize = "full"
	}
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputSize)
	params.Set("datatype", "json")
	params.Set("apikey", a.Key)

	var resp dailyResponse
	if err := infra.GetJSON(ctx, a.BaseURL, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("alpha vantage daily %s: %w", symbol, err)
	}
	if len(resp.Series) == 0 {
		if note := throttleNote(resp.Note, resp.Information); note != "" {
			return nil, fmt.Errorf("alpha vantage throttled: %s", note)
		}
		return nil, nil
	}

	dates := make([]string, 0, len(resp.Series))
	for d := range resp.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > limit {
		dates = dates[len(dates)-limit:]
	}

	out := make([]models.Candle, 0, len(dates))
	for _, d := range dates {
		bar := resp.Series[d]
		closeVal, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			if closeVal, err = strconv.ParseFloat(bar.AdjustedClose, 64); err != nil {
				continue
			}
		}
		ts, err := time.Parse(utils.DateFormat, d)
		if err != nil {
			continue
		}
		c := models.Candle{Time: ts.UTC().Unix(), Close: closeVal}
		c.Open, _ = strconv.ParseFloat(bar.Open, 64)
		c.High, _ = strconv.ParseFloat(bar.High, 64)
		c.Low, _ = strconv.ParseFloat(bar.Low, 64)
		if v, err := strconv.ParseFloat(bar.Volume, 64); err == nil {
			c.Volume = v
		} else if v, err := strconv.ParseFloat(bar.VolumeAlt, 64); err == nil {
			c.Volume = v
		}
		out = append(out, c)
	}
	a.cache.SetWithTTL(cacheKey, out, seriesTTL)
	return out, nil
}
