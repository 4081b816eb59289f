package eia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seriesid/PET.RWTC.D" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
  "response": {
    "data": [
      {"period": "2025-08-28", "value": 84.15},
      {"period": "2025-08-27", "value": "83.90"},
      {"period": "2025-08-26", "value": null}
    ]
  }
}`))
	}))
	defer srv.Close()

	c := New("k")
	c.BaseURL = srv.URL

	obs, err := c.Series(context.Background(), "PET.RWTC.D", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 2 {
		t.Fatalf("len = %d, want null skipped", len(obs))
	}
	if obs[0].Value != 84.15 {
		t.Errorf("numeric value = %v", obs[0].Value)
	}
	if obs[1].Value != 83.90 {
		t.Errorf("quoted value = %v", obs[1].Value)
	}
}

func TestSeriesPeriodNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"data": [
			{"period": "2025-08", "value": 2.1},
			{"period": "2024", "value": 1.9}
		]}}`))
	}))
	defer srv.Close()

	c := New("k")
	c.BaseURL = srv.URL

	obs, err := c.Series(context.Background(), "NG.RNGWHHD.M", 2)
	if err != nil {
		t.Fatal(err)
	}
	if obs[0].Date != "2025-08-01" {
		t.Errorf("monthly period = %q", obs[0].Date)
	}
	if obs[1].Date != "2024-01-01" {
		t.Errorf("annual period = %q", obs[1].Date)
	}
}

func TestSeriesDisabledWithoutKey(t *testing.T) {
	c := New("")
	obs, err := c.Series(context.Background(), "PET.RWTC.D", 2)
	if obs != nil || err != nil {
		t.Errorf("obs = %v, err = %v", obs, err)
	}
}
