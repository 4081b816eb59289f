// Package tradingview implements the TradingView scanner snapshot client
// that seeds price enrichment for the social pipeline. The scanner is an
// unauthenticated POST endpoint returning one row per requested ticker.
package tradingview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const defaultURL = "https://scanner.tradingview.com/america/scan"

// scanColumns is the fixed column order requested from the scanner.
var scanColumns = []string{"close", "pricescale", "volume", "change", "change_abs"}

// Client posts scan requests for a batch of symbols.
type Client struct {
	BaseURL  string
	Exchange string
}

// New builds a scanner client. Symbols are prefixed with the exchange
// (NASDAQ by default) in scan requests.
func New() *Client {
	return &Client{BaseURL: defaultURL, Exchange: "NASDAQ"}
}

type scanRequest struct {
	Symbols struct {
		Tickers []string `json:"tickers"`
		Query   struct {
			Types []string `json:"types"`
		} `json:"query"`
	} `json:"symbols"`
	Columns []string `json:"columns"`
}

type scanResponse struct {
	Data []struct {
		Symbol  string            `json:"s"` // "NASDAQ:AAPL"
		Columns []json.RawMessage `json:"d"`
	} `json:"data"`
}

// Scan returns one snapshot row per symbol that the scanner recognized.
// Close prices are divided by the reported pricescale. Unknown symbols are
// simply absent from the result.
func (c *Client) Scan(ctx context.Context, symbols []string) (map[string]models.ScannerRow, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	var req scanRequest
	req.Columns = scanColumns
	req.Symbols.Query.Types = []string{}
	for _, sym := range symbols {
		sym = utils.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		req.Symbols.Tickers = append(req.Symbols.Tickers, c.Exchange+":"+sym)
	}
	if len(req.Symbols.Tickers) == 0 {
		return nil, nil
	}

	var resp scanResponse
	if err := infra.PostJSON(ctx, c.BaseURL, req, &resp); err != nil {
		return nil, fmt.Errorf("tradingview scan: %w", err)
	}

	out := make(map[string]models.ScannerRow, len(resp.Data))
	for _, item := range resp.Data {
		_, sym, found := strings.Cut(item.Symbol, ":")
		if !found || len(item.Columns) < len(scanColumns) {
			continue
		}
		closeVal := rawFloat(item.Columns[0])
		scale := rawFloat(item.Columns[1])
		if scale != 0 {
			closeVal /= scale
		}
		out[strings.ToUpper(sym)] = models.ScannerRow{
			Symbol:    strings.ToUpper(sym),
			Close:     round2(closeVal),
			Volume:    rawFloat(item.Columns[2]),
			ChangePct: round2(rawFloat(item.Columns[3])),
			ChangeAbs: round2(rawFloat(item.Columns[4])),
		}
	}
	return out, nil
}

// rawFloat decodes a scanner column that may be a number or null.
func rawFloat(raw json.RawMessage) float64 {
	var v float64
	if json.Unmarshal(raw, &v) == nil {
		return v
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
