package marketaux

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finpulse/finpulse/internal/provider"
)

const sampleResponse = `{
  "data": [
    {
      "title": "Oil majors rally as Brent climbs",
      "description": "Crude strength lifts the sector.",
      "url": "https://example.com/a1",
      "published_at": "2025-08-29T14:05:00.000000Z",
      "source": "example.com",
      "entities": [
        {"symbol": "XOM", "industry": "Energy"},
        {"symbol": "CVX", "industry": "Energy"}
      ]
    },
    {
      "title": "",
      "description": "",
      "url": "",
      "published_at": "",
      "source": ""
    }
  ]
}`

func TestFetchNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_token"); got != "test-key" {
			t.Errorf("api_token = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Errorf("limit = %q, want free-tier clamp to 3", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	a := New("test-key")
	a.BaseURL = srv.URL

	batch := a.Fetch(context.Background(), 30)
	if batch.Status != provider.StatusOK {
		t.Fatalf("status = %s, err = %v", batch.Status, batch.Err)
	}
	if len(batch.Articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1 (empty record skipped)", len(batch.Articles))
	}

	art := batch.Articles[0]
	if art.Date != "2025-08-29" {
		t.Errorf("date = %q", art.Date)
	}
	if art.Source != "Marketaux: example.com" {
		t.Errorf("source = %q", art.Source)
	}
	if art.Category != "Oil" {
		t.Errorf("category = %s", art.Category)
	}
	if len(art.Tags) != 4 {
		t.Errorf("seed tags = %v, want symbol+industry pairs", art.Tags)
	}
	if art.ID[:10] != "marketaux:" {
		t.Errorf("id = %q, want marketaux prefix", art.ID)
	}
}

func TestFetchDisabledWithoutKey(t *testing.T) {
	a := New("")
	batch := a.Fetch(context.Background(), 3)
	if batch.Status != provider.StatusDisabled {
		t.Errorf("status = %s, want disabled", batch.Status)
	}
}

func TestFetchErrorOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	a := New("test-key")
	a.BaseURL = srv.URL

	batch := a.Fetch(context.Background(), 3)
	if batch.Status != provider.StatusError {
		t.Errorf("status = %s, want error", batch.Status)
	}
	if batch.Err == nil {
		t.Error("err is nil")
	}
}
