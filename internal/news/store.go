// Package news implements the news ingest pipeline: the JSON file store and
// the merge engine that runs the provider adapters.
package news

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finpulse/finpulse/pkg/models"
)

// Store is a repository over a single JSON file holding the persisted
// article array. Reads are cached in memory and hot-reload when the file's
// mtime changes, so an external rewrite is picked up without a restart.
// A missing or corrupt file reads as an empty store, never as an error.
type Store struct {
	path string

	mu    sync.Mutex
	cache []models.NormalizedArticle
	mtime time.Time
}

// NewStore creates a store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string { return s.path }

// loadLocked refreshes the cache if the file changed since the last read.
// Caller holds s.mu.
func (s *Store) loadLocked() {
	info, err := os.Stat(s.path)
	if err != nil {
		s.cache = nil
		s.mtime = time.Time{}
		return
	}
	if s.cache != nil && info.ModTime().Equal(s.mtime) {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.cache = nil
		return
	}
	var items []models.NormalizedArticle
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt store reads as empty; the next ingest overwrites it.
		s.cache = []models.NormalizedArticle{}
		s.mtime = info.ModTime()
		return
	}
	sortNewestFirst(items)
	s.cache = items
	s.mtime = info.ModTime()
}

// List returns all articles, newest first.
func (s *Store) List() []models.NormalizedArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	out := make([]models.NormalizedArticle, len(s.cache))
	copy(out, s.cache)
	return out
}

// Categories returns the distinct categories present, sorted.
func (s *Store) Categories() []string {
	seen := map[string]bool{}
	for _, a := range s.List() {
		seen[string(a.Category)] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// GetByID returns the article with the given id, or false.
func (s *Store) GetByID(id string) (models.NormalizedArticle, bool) {
	for _, a := range s.List() {
		if a.ID == id {
			return a, true
		}
	}
	return models.NormalizedArticle{}, false
}

// Query filters articles by category and free-text search. A query starting
// with "#" is an exact case-insensitive tag match; anything else is a
// substring search across title, summary, and tags.
func (s *Store) Query(category, q string) []models.NormalizedArticle {
	items := s.List()

	if category != "" {
		filtered := items[:0]
		for _, a := range items {
			if string(a.Category) == category {
				filtered = append(filtered, a)
			}
		}
		items = filtered
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return items
	}

	if strings.HasPrefix(q, "#") {
		needle := strings.ToLower(q[1:])
		var out []models.NormalizedArticle
		for _, a := range items {
			for _, t := range a.Tags {
				if strings.ToLower(t) == needle {
					out = append(out, a)
					break
				}
			}
		}
		return out
	}

	needle := strings.ToLower(q)
	var out []models.NormalizedArticle
	for _, a := range items {
		if matchesText(a, needle) {
			out = append(out, a)
		}
	}
	return out
}

func matchesText(a models.NormalizedArticle, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Summary), needle) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// TopTags returns the most frequent tags across the store, descending by
// count with ties broken alphabetically.
func (s *Store) TopTags(limit int) []models.TagCount {
	counts := map[string]int{}
	for _, a := range s.List() {
		for _, t := range a.Tags {
			if t != "" {
				counts[t]++
			}
		}
	}
	out := make([]models.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Replace atomically overwrites the store with the given articles: the
// payload is written to a temp file in the same directory and renamed over
// the target, so a concurrent reader never observes a partial file. On any
// error the previous file is left intact.
func (s *Store) Replace(items []models.NormalizedArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []models.NormalizedArticle{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal news store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace news store: %w", err)
	}

	s.cache = append([]models.NormalizedArticle(nil), items...)
	if info, err := os.Stat(s.path); err == nil {
		s.mtime = info.ModTime()
	}
	return nil
}

// sortNewestFirst orders by date descending; ties break on id so repeated
// merges of the same input produce identical output.
func sortNewestFirst(items []models.NormalizedArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].ID < items[j].ID
	})
}
