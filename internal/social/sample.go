package social

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/finpulse/finpulse/pkg/models"
)

//go:embed sample_posts.json
var sampleFS embed.FS

type sampleData struct {
	Symbols map[string][]models.SocialPost   `json:"symbols"`
	Users   map[string][]models.TimelinePost `json:"users"`
}

var (
	sampleOnce   sync.Once
	sampleParsed sampleData
)

func loadSample() sampleData {
	sampleOnce.Do(func() {
		raw, err := sampleFS.ReadFile("sample_posts.json")
		if err != nil {
			return
		}
		// The fixture ships with the binary; a decode failure here is a build
		// defect, not a runtime condition, so it degrades to empty data.
		_ = json.Unmarshal(raw, &sampleParsed)
	})
	return sampleParsed
}

// SamplePosts returns bundled demo posts for a symbol so the pipeline always
// has something to score when every live provider is unavailable.
func SamplePosts(symbol string, limit int) []models.SocialPost {
	posts := loadSample().Symbols[symbol]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	out := make([]models.SocialPost, len(posts))
	copy(out, posts)
	return out
}

// SampleTimeline returns the bundled demo timeline for a username, or nil
// when the fixture has no entry for them.
func SampleTimeline(username string, limit int) []models.TimelinePost {
	posts := loadSample().Users[username]
	if posts == nil {
		return nil
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	out := make([]models.TimelinePost, len(posts))
	copy(out, posts)
	return out
}
