package macro

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finpulse/finpulse/pkg/models"
)

// Cache holds the assembled macro payload behind a mutex with a TTL.
// Readers always get a deep copy; a rebuild in flight can never mutate data
// referenced by an in-flight response.
type Cache struct {
	builder *Builder
	ttl     time.Duration
	log     *zap.Logger

	mu       sync.Mutex
	snapshot *models.MacroTrends
	builtAt  time.Time
}

// NewCache wires a cache around a builder. ttlSeconds at or below zero
// defaults to two hours.
func NewCache(builder *Builder, ttlSeconds int, log *zap.Logger) *Cache {
	if ttlSeconds <= 0 {
		ttlSeconds = 2 * 60 * 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		builder: builder,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		log:     log,
	}
}

// Get returns the macro payload, rebuilding when the cached copy is invalid
// or force is set. A forced rebuild still writes through so subsequent
// readers share it.
func (c *Cache) Get(ctx context.Context, force bool) models.MacroTrends {
	c.mu.Lock()
	if !force && c.validLocked() {
		out := deepCopy(*c.snapshot)
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh rebuilds the payload and swaps it into the cache.
func (c *Cache) Refresh(ctx context.Context) models.MacroTrends {
	trends := c.builder.Build(ctx)

	c.mu.Lock()
	c.snapshot = &trends
	c.builtAt = time.Now()
	c.mu.Unlock()

	c.log.Info("macro trends rebuilt",
		zap.Int("categories", len(trends.Categories)),
		zap.Bool("live_sources", c.builder.HasCredentials()))
	return deepCopy(trends)
}

// validLocked applies the reuse rule: within TTL, and either no live
// credentials exist or the cached payload actually carries live history.
// An all-fallback payload built while credentials were transiently failing
// is not worth keeping past the next read.
func (c *Cache) validLocked() bool {
	if c.snapshot == nil {
		return false
	}
	if time.Since(c.builtAt) >= c.ttl {
		return false
	}
	if !c.builder.HasCredentials() {
		return true
	}
	return hasLiveHistory(*c.snapshot)
}

func hasLiveHistory(trends models.MacroTrends) bool {
	for _, cat := range trends.Categories {
		for _, m := range cat.Metrics {
			if len(m.History) > 0 {
				return true
			}
		}
	}
	return false
}

func deepCopy(trends models.MacroTrends) models.MacroTrends {
	out := models.MacroTrends{
		Updated:    trends.Updated,
		Categories: make([]models.MacroCategory, len(trends.Categories)),
	}
	for i, cat := range trends.Categories {
		copied := models.MacroCategory{
			ID:      cat.ID,
			Title:   cat.Title,
			Metrics: make([]models.MacroMetric, len(cat.Metrics)),
		}
		for j, m := range cat.Metrics {
			metric := m
			if m.History != nil {
				metric.History = make([]models.MacroObservation, len(m.History))
				copy(metric.History, m.History)
			}
			copied.Metrics[j] = metric
		}
		out.Categories[i] = copied
	}
	return out
}
