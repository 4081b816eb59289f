// Package eia implements the EIA (US Energy Information Administration)
// v2 series client backing the energy metrics.
//
// Requires a free API key from https://www.eia.gov/opendata/.
// The v2 seriesid route accepts legacy series IDs like PET.RWTC.D.
// Docs: https://www.eia.gov/opendata/documentation.php
package eia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
)

const defaultURL = "https://api.eia.gov/v2"

// Client fetches energy time series.
type Client struct {
	Key     string
	BaseURL string
}

// New builds an EIA client. An empty key disables it.
func New(key string) *Client {
	return &Client{Key: key, BaseURL: defaultURL}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.Key != "" }

type seriesResponse struct {
	Response struct {
		Data []struct {
			Period string          `json:"period"`
			Value  json.RawMessage `json:"value"`
		} `json:"data"`
	} `json:"response"`
}

// Series returns up to limit most-recent observations for a legacy series
// ID, newest first. Null values are skipped.
func (c *Client) Series(ctx context.Context, seriesID string, limit int) ([]models.MacroObservation, error) {
	if c.Key == "" || seriesID == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("api_key", c.Key)
	params.Set("sort[0][column]", "period")
	params.Set("sort[0][direction]", "desc")
	params.Set("length", strconv.Itoa(limit))

	endpoint := c.BaseURL + "/seriesid/" + url.PathEscape(seriesID)
	var resp seriesResponse
	if err := infra.GetJSON(ctx, endpoint, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("eia series %s: %w", seriesID, err)
	}

	out := make([]models.MacroObservation, 0, len(resp.Response.Data))
	for _, d := range resp.Response.Data {
		v, ok := rawValue(d.Value)
		if !ok {
			continue
		}
		out = append(out, models.MacroObservation{Date: normalizePeriod(d.Period), Value: v})
	}
	return out, nil
}

// rawValue decodes a value that may arrive as a number or a quoted string.
func rawValue(raw json.RawMessage) (float64, bool) {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f, true
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// normalizePeriod pads EIA periods ("2025-08", "2025") to a calendar date.
func normalizePeriod(p string) string {
	switch len(p) {
	case 4:
		return p + "-01-01"
	case 7:
		return p + "-01"
	default:
		return p
	}
}
