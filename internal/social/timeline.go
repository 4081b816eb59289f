package social

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// TimelineSource fetches a user's recent posts from the live API.
type TimelineSource interface {
	Enabled() bool
	UserTimeline(ctx context.Context, username string, limit int) ([]models.TimelinePost, error)
}

// TimelineResult is the resolved timeline plus where it came from.
// Origin is "api", "cache", "sample", or "empty".
type TimelineResult struct {
	Username  string                `json:"username"`
	FetchedAt string                `json:"fetched_at"`
	Origin    string                `json:"origin"`
	Items     []models.TimelinePost `json:"items"`
}

// TimelineService resolves user timelines with a per-user disk cache.
// Resolution order: fresh cache, live API (cached on success), stale cache,
// bundled sample, empty. A missing API token skips straight to the sample.
type TimelineService struct {
	source   TimelineSource
	dataDir  string
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewTimelineService builds a timeline service. cacheMinutes at or below
// zero defaults to 10.
func NewTimelineService(source TimelineSource, dataDir string, cacheMinutes int, log *zap.Logger) *TimelineService {
	if cacheMinutes <= 0 {
		cacheMinutes = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TimelineService{
		source:   source,
		dataDir:  dataDir,
		cacheTTL: time.Duration(cacheMinutes) * time.Minute,
		log:      log,
	}
}

type timelineCacheFile struct {
	Username  string                `json:"username"`
	FetchedAt string                `json:"fetched_at"`
	Items     []models.TimelinePost `json:"items"`
}

// Resolve returns up to limit timeline posts for username.
func (t *TimelineService) Resolve(ctx context.Context, username string, limit int) TimelineResult {
	username = sanitizeUsername(username)
	if username == "" {
		return TimelineResult{Origin: "empty", Items: []models.TimelinePost{}}
	}
	if limit < 1 {
		limit = 20
	}

	if cached, ok := t.readCache(username); ok {
		if age, fresh := cacheAge(cached.FetchedAt, t.cacheTTL); fresh {
			t.log.Debug("timeline cache hit",
				zap.String("username", username),
				zap.Duration("age", age))
			return TimelineResult{
				Username:  username,
				FetchedAt: cached.FetchedAt,
				Origin:    "cache",
				Items:     truncateTimeline(cached.Items, limit),
			}
		}
	}

	if t.source != nil && t.source.Enabled() {
		items, err := t.source.UserTimeline(ctx, username, limit)
		if err == nil && len(items) > 0 {
			fetchedAt := utils.NowRFC3339()
			t.writeCache(username, timelineCacheFile{
				Username:  username,
				FetchedAt: fetchedAt,
				Items:     items,
			})
			return TimelineResult{
				Username:  username,
				FetchedAt: fetchedAt,
				Origin:    "api",
				Items:     truncateTimeline(items, limit),
			}
		}
		if err != nil {
			t.log.Warn("timeline fetch failed, falling back",
				zap.String("username", username),
				zap.Error(err))
		}
		// Stale cache beats sample data after an API failure.
		if cached, ok := t.readCache(username); ok && len(cached.Items) > 0 {
			return TimelineResult{
				Username:  username,
				FetchedAt: cached.FetchedAt,
				Origin:    "cache",
				Items:     truncateTimeline(cached.Items, limit),
			}
		}
	}

	if items := SampleTimeline(username, limit); len(items) > 0 {
		return TimelineResult{
			Username:  username,
			FetchedAt: utils.NowRFC3339(),
			Origin:    "sample",
			Items:     items,
		}
	}
	return TimelineResult{Username: username, Origin: "empty", Items: []models.TimelinePost{}}
}

func (t *TimelineService) cachePath(username string) string {
	return filepath.Join(t.dataDir, "tweets_"+username+".json")
}

func (t *TimelineService) readCache(username string) (timelineCacheFile, bool) {
	raw, err := os.ReadFile(t.cachePath(username))
	if err != nil {
		return timelineCacheFile{}, false
	}
	var cached timelineCacheFile
	if err := json.Unmarshal(raw, &cached); err != nil {
		return timelineCacheFile{}, false
	}
	return cached, true
}

func (t *TimelineService) writeCache(username string, cached timelineCacheFile) {
	if err := os.MkdirAll(t.dataDir, 0o755); err != nil {
		t.log.Warn("timeline cache dir", zap.Error(err))
		return
	}
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(t.cachePath(username), data, 0o644); err != nil {
		t.log.Warn("timeline cache write",
			zap.String("username", username),
			zap.Error(err))
	}
}

func cacheAge(fetchedAt string, ttl time.Duration) (time.Duration, bool) {
	if fetchedAt == "" {
		return 0, false
	}
	fetched, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return 0, false
	}
	age := time.Since(fetched)
	return age, age >= 0 && age < ttl
}

// sanitizeUsername keeps the handle filesystem-safe: a cache filename is
// derived from it directly.
func sanitizeUsername(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncateTimeline(items []models.TimelinePost, limit int) []models.TimelinePost {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.TimelinePost, len(items))
	copy(out, items)
	return out
}
