// Package stocktwits implements the StockTwits public symbol-stream client.
// No API key required; engagement counters are not exposed by the public
// stream, so posts carry nil like/reply/repost counts.
package stocktwits

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const (
	sourceName = "stocktwits"
	defaultURL = "https://api.stocktwits.com/api/2"

	maxStreamLimit = 50
)

// Client fetches recent messages for a symbol.
type Client struct {
	BaseURL string
}

// New builds a StockTwits client.
func New() *Client {
	return &Client{BaseURL: defaultURL}
}

type streamResponse struct {
	Messages []struct {
		ID        int64  `json:"id"`
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Username string `json:"username"`
		} `json:"user"`
		Source struct {
			URL string `json:"url"`
		} `json:"source"`
	} `json:"messages"`
}

// Stream returns up to limit recent messages for a symbol, normalized to
// the common post shape.
func (c *Client) Stream(ctx context.Context, symbol string, limit int) ([]models.SocialPost, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, nil
	}
	if limit < 1 || limit > maxStreamLimit {
		limit = maxStreamLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	endpoint := c.BaseURL + "/streams/symbol/" + symbol + ".json"
	var resp streamResponse
	if err := infra.GetJSON(ctx, endpoint, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("stocktwits stream %s: %w", symbol, err)
	}

	msgs := resp.Messages
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	posts := make([]models.SocialPost, 0, len(msgs))
	for _, m := range msgs {
		id := strconv.FormatInt(m.ID, 10)
		postURL := m.Source.URL
		if postURL == "" && m.ID != 0 {
			postURL = "https://stocktwits.com/" + m.User.Username + "/message/" + id
		}
		posts = append(posts, models.SocialPost{
			ID:        id,
			Source:    sourceName,
			Symbol:    symbol,
			Author:    m.User.Username,
			URL:       postURL,
			CreatedAt: utils.ISOFromTime(utils.ParseISO(m.CreatedAt)),
			Text:      m.Body,
		})
	}
	return posts, nil
}
