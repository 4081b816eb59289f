package twitterx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPagination(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "$SPY lang:en" {
			t.Errorf("query = %q", got)
		}
		page++
		if page == 1 {
			w.Write([]byte(`{
  "data": [{"id": "1", "text": "SPY to the moon", "author_id": "u1", "created_at": "2025-08-29T10:00:00Z", "public_metrics": {"like_count": 30, "reply_count": 2, "retweet_count": 5}}],
  "includes": {"users": [{"id": "u1", "username": "trader_one"}]},
  "meta": {"next_token": "abc"}
}`))
			return
		}
		if got := r.URL.Query().Get("next_token"); got != "abc" {
			t.Errorf("next_token = %q", got)
		}
		w.Write([]byte(`{
  "data": [{"id": "2", "text": "selling puts", "author_id": "u2", "created_at": "2025-08-29T09:00:00Z", "public_metrics": {"like_count": 1, "reply_count": 0, "retweet_count": 0}}],
  "includes": {"users": []},
  "meta": {}
}`))
	}))
	defer srv.Close()

	c := New("tok")
	c.BaseURL = srv.URL

	posts, err := c.Search(context.Background(), "spy", 150, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d", len(posts))
	}
	if posts[0].Author != "trader_one" {
		t.Errorf("author = %q", posts[0].Author)
	}
	if posts[0].URL != "https://twitter.com/trader_one/status/1" {
		t.Errorf("url = %q", posts[0].URL)
	}
	if posts[1].URL != "https://twitter.com/i/web/status/2" {
		t.Errorf("anonymous url = %q", posts[1].URL)
	}
	if posts[0].LikeCount == nil || *posts[0].LikeCount != 30 {
		t.Errorf("like_count = %v", posts[0].LikeCount)
	}
	if posts[0].Symbol != "SPY" {
		t.Errorf("symbol = %q", posts[0].Symbol)
	}
}

func TestSearchRateLimitReturnsPartial(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			fmt.Fprint(w, `{
  "data": [{"id": "1", "text": "bullish", "author_id": "u1", "created_at": "2025-08-29T10:00:00Z", "public_metrics": {}}],
  "includes": {"users": [{"id": "u1", "username": "a"}]},
  "meta": {"next_token": "more"}
}`)
			return
		}
		w.Header().Set("x-rate-limit-remaining", "0")
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("tok")
	c.BaseURL = srv.URL

	posts, err := c.Search(context.Background(), "SPY", 200, 0)
	if err != nil {
		t.Fatalf("rate limit must not be an error: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("len = %d, want partial page", len(posts))
	}
}

func TestSearchHardErrorReturnsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New("tok")
	c.BaseURL = srv.URL

	posts, err := c.Search(context.Background(), "SPY", 10, 12)
	if err == nil {
		t.Error("want error")
	}
	if posts != nil {
		t.Errorf("posts = %v, want none", posts)
	}
}

func TestSearchDisabledWithoutToken(t *testing.T) {
	c := New("")
	posts, err := c.Search(context.Background(), "SPY", 10, 12)
	if posts != nil || err != nil {
		t.Errorf("posts = %v, err = %v", posts, err)
	}
}
