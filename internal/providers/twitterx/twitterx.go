// Package twitterx implements the X (Twitter) API v2 recent-search client
// used by the social sentiment pipeline.
//
// Requires a bearer token with recent-search access. The free tier rate
// limits hard; a 429 mid-pagination returns the posts collected so far
// rather than failing the symbol.
// Docs: https://developer.twitter.com/en/docs/twitter-api/tweets/search
package twitterx

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

const (
	sourceName = "x"
	defaultURL = "https://api.twitter.com/2"
)

// Client queries recent posts mentioning a cashtag and user timelines.
type Client struct {
	Bearer  string
	BaseURL string
}

// New builds an X client. An empty bearer token disables it.
func New(bearer string) *Client {
	return &Client{Bearer: bearer, BaseURL: defaultURL}
}

// Enabled reports whether a bearer token is configured.
func (c *Client) Enabled() bool { return c.Bearer != "" }

type searchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			ReplyCount   int `json:"reply_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Meta struct {
		NextToken string `json:"next_token"`
	} `json:"meta"`
}

// Search returns up to limit recent English posts mentioning $symbol within
// the lookback window, paginating until the limit is reached. Rate limiting
// mid-pagination returns the partial result with a nil error; any other
// failure returns an error and no posts.
func (c *Client) Search(ctx context.Context, symbol string, limit, lookbackHours int) ([]models.SocialPost, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if c.Bearer == "" || symbol == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	headers := map[string]string{"Authorization": "Bearer " + c.Bearer}

	params := url.Values{}
	params.Set("query", "$"+symbol+" lang:en")
	params.Set("tweet.fields", "created_at,lang,public_metrics")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username,name")
	if lookbackHours > 0 {
		start := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)
		params.Set("start_time", start.Truncate(time.Second).Format(time.RFC3339))
	}

	var posts []models.SocialPost
	nextToken := ""

	for len(posts) < limit {
		pageSize := limit - len(posts)
		if pageSize < 10 {
			pageSize = 10
		}
		if pageSize > 100 {
			pageSize = 100
		}
		params.Set("max_results", strconv.Itoa(pageSize))
		if nextToken != "" {
			params.Set("next_token", nextToken)
		} else {
			params.Del("next_token")
		}

		var resp searchResponse
		if err := infra.GetJSON(ctx, c.BaseURL+"/tweets/search/recent", params, headers, &resp); err != nil {
			var statusErr *infra.HTTPStatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == 429 {
				// Partial results beat none; the caller logs the shortfall.
				return clamp(posts, limit), nil
			}
			return nil, fmt.Errorf("x search $%s: %w", symbol, err)
		}
		if len(resp.Data) == 0 {
			break
		}

		usernames := make(map[string]string, len(resp.Includes.Users))
		for _, u := range resp.Includes.Users {
			usernames[u.ID] = u.Username
		}

		for _, tweet := range resp.Data {
			username := usernames[tweet.AuthorID]
			postURL := "https://twitter.com/i/web/status/" + tweet.ID
			if username != "" {
				postURL = "https://twitter.com/" + username + "/status/" + tweet.ID
			}
			likes := tweet.PublicMetrics.LikeCount
			replies := tweet.PublicMetrics.ReplyCount
			reposts := tweet.PublicMetrics.RetweetCount
			posts = append(posts, models.SocialPost{
				ID:          tweet.ID,
				Source:      sourceName,
				Symbol:      symbol,
				Author:      username,
				URL:         postURL,
				CreatedAt:   utils.ISOFromTime(utils.ParseISO(tweet.CreatedAt)),
				Text:        tweet.Text,
				LikeCount:   &likes,
				ReplyCount:  &replies,
				RepostCount: &reposts,
			})
		}

		nextToken = resp.Meta.NextToken
		if nextToken == "" {
			break
		}
	}

	return clamp(posts, limit), nil
}

func clamp(posts []models.SocialPost, limit int) []models.SocialPost {
	if len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
