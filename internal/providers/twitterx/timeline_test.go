package twitterx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/by/username/velajuel40":
			w.Write([]byte(`{"data": {"id": "9001"}}`))
		case "/users/9001/tweets":
			w.Write([]byte(`{
  "data": [
    {"id": "t1", "text": "Trimmed some $IXHL at 3.45", "created_at": "2025-08-11T14:32:18Z"},
    {"id": "t2", "text": "$AAPL upgrade out this morning", "created_at": "2025-08-12T09:05:44Z"}
  ],
  "meta": {}
}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New("tok")
	c.BaseURL = srv.URL

	posts, err := c.UserTimeline(context.Background(), "velajuel40", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d", len(posts))
	}
	if posts[0].URL != "https://twitter.com/velajuel40/status/t1" {
		t.Errorf("url = %q", posts[0].URL)
	}
	if posts[0].Date != "2025-08-11T14:32:18Z" {
		t.Errorf("date = %q", posts[0].Date)
	}
}

func TestUserTimelineLookupMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	c := New("tok")
	c.BaseURL = srv.URL

	if _, err := c.UserTimeline(context.Background(), "ghost", 5); err == nil {
		t.Error("want error for missing user id")
	}
}
