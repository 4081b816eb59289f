package twitterx

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finpulse/finpulse/internal/infra"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

type userLookupResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Meta struct {
		NextToken string `json:"next_token"`
	} `json:"meta"`
}

// UserTimeline returns up to limit recent posts from a user's timeline,
// resolving the username to an id first. Errors propagate; the caller
// decides whether a disk cache or sample data covers the gap.
func (c *Client) UserTimeline(ctx context.Context, username string, limit int) ([]models.TimelinePost, error) {
	if c.Bearer == "" || username == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	headers := map[string]string{"Authorization": "Bearer " + c.Bearer}

	var lookup userLookupResponse
	lookupURL := c.BaseURL + "/users/by/username/" + url.PathEscape(username)
	if err := infra.GetJSON(ctx, lookupURL, nil, headers, &lookup); err != nil {
		return nil, fmt.Errorf("x user lookup %s: %w", username, err)
	}
	if lookup.Data.ID == "" {
		return nil, fmt.Errorf("x user lookup %s: no id in response", username)
	}

	var posts []models.TimelinePost
	nextToken := ""
	for len(posts) < limit {
		pageSize := limit - len(posts)
		if pageSize < 5 {
			pageSize = 5
		}
		if pageSize > 100 {
			pageSize = 100
		}
		params := url.Values{}
		params.Set("max_results", strconv.Itoa(pageSize))
		params.Set("tweet.fields", "created_at,public_metrics")
		if nextToken != "" {
			params.Set("pagination_token", nextToken)
		}

		var resp timelineResponse
		timelineURL := c.BaseURL + "/users/" + lookup.Data.ID + "/tweets"
		if err := infra.GetJSON(ctx, timelineURL, params, headers, &resp); err != nil {
			return nil, fmt.Errorf("x timeline %s: %w", username, err)
		}
		if len(resp.Data) == 0 {
			break
		}
		for _, tw := range resp.Data {
			posts = append(posts, models.TimelinePost{
				ID:   tw.ID,
				Date: utils.ISOFromTime(utils.ParseISO(tw.CreatedAt)),
				Text: tw.Text,
				URL:  "https://twitter.com/" + username + "/status/" + tw.ID,
			})
		}
		nextToken = resp.Meta.NextToken
		if nextToken == "" {
			break
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
