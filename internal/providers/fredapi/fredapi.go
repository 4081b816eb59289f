// Package fredapi implements the FRED (Federal Reserve Economic Data)
// observations client backing the macro-trends metrics.
//
// Requires a free API key from https://fred.stlouisfed.org/docs/api/api_key.html
// Rate limit: 120 requests/minute.
// Docs: https://fred.stlouisfed.org/docs/api/fred/
package fredapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
)

const defaultURL = "https://api.stlouisfed.org/fred"

// Client fetches series observations.
type Client struct {
	Key     string
	BaseURL string
}

// New builds a FRED client. An empty key disables it.
func New(key string) *Client {
	return &Client{Key: key, BaseURL: defaultURL}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.Key != "" }

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"` // "." marks a missing value
	} `json:"observations"`
}

// Observations returns up to limit most-recent observations for a series,
// newest first. Missing values ("." in the raw feed) are skipped.
func (c *Client) Observations(ctx context.Context, seriesID string, limit int) ([]models.MacroObservation, error) {
	if c.Key == "" || seriesID == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.Key)
	params.Set("file_type", "json")
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(limit))

	var resp observationsResponse
	if err := infra.GetJSON(ctx, c.BaseURL+"/series/observations", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("fred observations %s: %w", seriesID, err)
	}

	out := make([]models.MacroObservation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == "." || o.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, models.MacroObservation{Date: o.Date, Value: v})
	}
	return out, nil
}
