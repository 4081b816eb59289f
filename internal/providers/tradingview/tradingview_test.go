package tradingview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Symbols.Tickers) != 2 || req.Symbols.Tickers[0] != "NASDAQ:AAPL" {
			t.Errorf("tickers = %v", req.Symbols.Tickers)
		}
		w.Write([]byte(`{
  "data": [
    {"s": "NASDAQ:AAPL", "d": [22750, 100, 41250000, 0.534, 1.207]},
    {"s": "NASDAQ:TSLA", "d": [null, null, null, null, null]},
    {"s": "garbage", "d": []}
  ]
}`))
	}))
	defer srv.Close()

	c := New()
	c.BaseURL = srv.URL

	rows, err := c.Scan(context.Background(), []string{"$aapl", "tsla"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}

	aapl := rows["AAPL"]
	if aapl.Close != 227.5 {
		t.Errorf("close = %v, want pricescale division", aapl.Close)
	}
	if aapl.ChangePct != 0.53 || aapl.ChangeAbs != 1.21 {
		t.Errorf("row = %+v, want rounding to 2 places", aapl)
	}
	if aapl.Volume != 41250000 {
		t.Errorf("volume = %v", aapl.Volume)
	}

	// Null columns decode to zeros rather than failing the scan.
	if rows["TSLA"].Close != 0 {
		t.Errorf("tsla = %+v", rows["TSLA"])
	}
}

func TestScanEmptyInput(t *testing.T) {
	c := New()
	rows, err := c.Scan(context.Background(), nil)
	if rows != nil || err != nil {
		t.Errorf("rows = %v, err = %v", rows, err)
	}
}
