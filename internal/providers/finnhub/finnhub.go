// Package finnhub implements the Finnhub adapter: general market news plus
// live quote, candle, and company-profile lookups.
//
// Requires a free API key from https://finnhub.io.
// Rate limit: 60 requests/minute on the free tier; quote/candle/profile
// reads go through a shared TTL cache so enrichment loops stay under it.
// Docs: https://finnhub.io/docs/api
package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/finpulse/finpulse/internal/classify"
	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const (
	providerName = "finnhub"
	defaultURL   = "https://finnhub.io/api/v1"

	quoteTTL   = 30 * time.Second
	candleTTL  = 120 * time.Second
	profileTTL = time.Hour
)

// Adapter serves both the news feed and the market-data lookups.
type Adapter struct {
	Key     string
	BaseURL string

	cache *infra.Cache
}

// New builds a Finnhub adapter. An empty key disables it.
func New(key string) *Adapter {
	return &Adapter{Key: key, BaseURL: defaultURL, cache: infra.NewCache(quoteTTL)}
}

func (a *Adapter) Name() string { return providerName }

// Enabled reports whether an API key is configured.
func (a *Adapter) Enabled() bool { return a.Key != "" }

// --- News ---

type rawArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
}

// Fetch retrieves the general news feed, truncated to limit.
func (a *Adapter) Fetch(ctx context.Context, limit int) provider.NewsBatch {
	if a.Key == "" {
		return provider.Disabled(providerName)
	}

	params := url.Values{}
	params.Set("category", "general")
	params.Set("token", a.Key)

	var raw []rawArticle
	if err := infra.GetJSON(ctx, a.BaseURL+"/news", params, nil, &raw); err != nil {
		return provider.Failed(providerName, fmt.Errorf("finnhub news: %w", err))
	}
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}

	articles := make([]models.NormalizedArticle, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" && r.Headline == "" {
			continue
		}
		source := r.Source
		if source == "" {
			source = "Finnhub"
		}
		key := r.URL
		if key == "" {
			key = r.Headline
		}
		articles = append(articles, models.NormalizedArticle{
			ID:       utils.ArticleID(providerName, key),
			Title:    r.Headline,
			Summary:  r.Summary,
			Source:   "Finnhub: " + source,
			URL:      r.URL,
			Date:     utils.DateFromUnix(r.Datetime),
			Category: classify.Categorize(r.Headline, r.Summary),
		})
	}
	return provider.OK(providerName, articles)
}

// --- Market data ---

type rawQuote struct {
	Current   float64 `json:"c"`
	Change    float64 `json:"d"`
	ChangePct float64 `json:"dp"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Open      float64 `json:"o"`
	PrevClose float64 `json:"pc"`
	Timestamp int64   `json:"t"`
}

// GetQuote returns the live quote for a symbol, cached for 30 s. A zero
// current price is treated as no data.
func (a *Adapter) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if a.Key == "" || symbol == "" {
		return nil, nil
	}

	cacheKey := "quote:" + symbol
	if hit, ok := a.cache.Get(cacheKey); ok {
		return hit.(*models.Quote), nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", a.Key)

	var raw rawQuote
	if err := infra.GetJSON(ctx, a.BaseURL+"/quote", params, nil, &raw); err != nil {
		return nil, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	if raw.Current == 0 {
		return nil, nil
	}

	q := &models.Quote{
		Symbol:    symbol,
		Current:   raw.Current,
		Change:    raw.Change,
		ChangePct: raw.ChangePct,
		High:      raw.High,
		Low:       raw.Low,
		Open:      raw.Open,
		PrevClose: raw.PrevClose,
		Timestamp: raw.Timestamp,
	}
	a.cache.SetWithTTL(cacheKey, q, quoteTTL)
	return q, nil
}

type rawCandles struct {
	Status string    `json:"s"`
	Closes []float64 `json:"c"`
	Times  []int64   `json:"t"`
}

// GetCandles returns close-only bars covering the past hours at the given
// resolution ("30" for 30-minute, "D" for daily). Intraday resolutions fall
// back to daily bars when the plan blocks them. Results are cached for 2 min,
// keyed on a window-aligned from-timestamp to boost hits.
func (a *Adapter) GetCandles(ctx context.Context, symbol, resolution string, hours int) ([]models.Candle, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if a.Key == "" || symbol == "" {
		return nil, nil
	}
	if hours < 1 {
		hours = 1
	}

	step := int64(30 * 60)
	if n, err := strconv.Atoi(resolution); err == nil {
		step = int64(n) * 60
	}
	now := time.Now().Unix()
	to := now - now%step
	from := to - int64(hours)*3600

	cacheKey := fmt.Sprintf("candle:%s:%s:%d", symbol, resolution, from)
	if hit, ok := a.cache.Get(cacheKey); ok {
		return hit.([]models.Candle), nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", resolution)
	params.Set("from", strconv.FormatInt(from, 10))
	params.Set("to", strconv.FormatInt(to, 10))
	params.Set("token", a.Key)

	var raw rawCandles
	err := infra.GetJSON(ctx, a.BaseURL+"/stock/candle", params, nil, &raw)
	if err != nil || raw.Status != "ok" {
		if resolution != "D" {
			// Free tier may block intraday data; daily bars still work.
			if hours < 24 {
				hours = 24
			}
			return a.GetCandles(ctx, symbol, "D", hours)
		}
		if err != nil {
			return nil, fmt.Errorf("finnhub candles %s: %w", symbol, err)
		}
		return nil, nil
	}

	n := len(raw.Times)
	if len(raw.Closes) < n {
		n = len(raw.Closes)
	}
	out := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Candle{Time: raw.Times[i], Close: raw.Closes[i]})
	}
	a.cache.SetWithTTL(cacheKey, out, candleTTL)
	return out, nil
}

type rawProfile struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"finnhubIndustry"`
	WebURL    string  `json:"weburl"`
	Logo      string  `json:"logo"`
	MarketCap float64 `json:"marketCapitalization"`
}

// GetProfile returns the company profile for a symbol, cached for 1 h.
func (a *Adapter) GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if a.Key == "" || symbol == "" {
		return nil, nil
	}

	cacheKey := "profile:" + symbol
	if hit, ok := a.cache.Get(cacheKey); ok {
		return hit.(*models.CompanyProfile), nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", a.Key)

	var raw rawProfile
	if err := infra.GetJSON(ctx, a.BaseURL+"/stock/profile2", params, nil, &raw); err != nil {
		return nil, fmt.Errorf("finnhub profile %s: %w", symbol, err)
	}
	if raw.Ticker == "" {
		return nil, nil
	}

	p := &models.CompanyProfile{
		Symbol:    raw.Ticker,
		Name:      raw.Name,
		Exchange:  raw.Exchange,
		Industry:  raw.Industry,
		WebURL:    raw.WebURL,
		Logo:      raw.Logo,
		MarketCap: raw.MarketCap,
	}
	a.cache.SetWithTTL(cacheKey, p, profileTTL)
	return p, nil
}
