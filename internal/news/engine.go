package news

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/finpulse/finpulse/internal/classify"
	"github.com/finpulse/finpulse/internal/config"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// Placeholder IDs written by the empty-store guards.
const (
	PlaceholderNoNews         = "system:no-news"
	PlaceholderNoRelevantNews = "system:no-relevant-news"
)

// Engine runs one full news merge cycle: fetch from every adapter, merge by
// id, re-tag, filter, and persist. Adapters are invoked in registration
// order every cycle so id-collision tie-breaking stays deterministic.
type Engine struct {
	adapters []provider.NewsAdapter
	store    *Store
	cfg      config.NewsConfig
	log      *zap.Logger

	// mu serializes cycles so an overlapping manual trigger and background
	// refresh cannot interleave writes.
	mu sync.Mutex
}

// NewEngine builds a merge engine over the given adapters and store.
func NewEngine(adapters []provider.NewsAdapter, store *Store, cfg config.NewsConfig, log *zap.Logger) *Engine {
	if cfg.LimitPerSource <= 0 {
		cfg.LimitPerSource = 30
	}
	if cfg.TagLimit <= 0 {
		cfg.TagLimit = 6
	}
	return &Engine{adapters: adapters, store: store, cfg: cfg, log: log}
}

// Store returns the engine's backing store.
func (e *Engine) Store() *Store { return e.store }

// Ingest performs one merge cycle and returns the number of persisted
// records. Provider failures degrade to empty batches; Ingest never returns
// an error for them and always leaves the store valid, writing a System
// placeholder rather than an empty file.
func (e *Engine) Ingest(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Fetch from every adapter, tolerating failures.
	merged := make(map[string]models.NormalizedArticle)
	for _, a := range e.adapters {
		batch := a.Fetch(ctx, e.cfg.LimitPerSource)
		switch batch.Status {
		case provider.StatusDisabled:
			e.log.Debug("provider disabled", zap.String("provider", a.Name()))
		case provider.StatusError:
			e.log.Warn("provider fetch failed",
				zap.String("provider", a.Name()), zap.Error(batch.Err))
		case provider.StatusOK:
			e.log.Info("provider fetch",
				zap.String("provider", a.Name()), zap.Int("articles", len(batch.Articles)))
		}
		// 2. Within one cycle, later adapters win on id collision.
		for _, art := range batch.Articles {
			if art.URL == "" && art.Title == "" {
				continue
			}
			merged[art.ID] = art
		}
	}

	existing := e.store.List()

	// 3. Nothing fetched and nothing stored: write a single placeholder so
	// consumers never see an empty state.
	if len(merged) == 0 && storeIsEmpty(existing) {
		placeholder := []models.NormalizedArticle{noNewsPlaceholder()}
		if err := e.store.Replace(placeholder); err != nil {
			e.log.Error("write placeholder failed", zap.Error(err))
			return 0
		}
		e.log.Warn("wrote placeholder, no providers returned data")
		return len(placeholder)
	}

	// 4–5. Overlay new records on the store (new wins) and re-run the
	// classifier on every record for idempotent freshness.
	byID := make(map[string]models.NormalizedArticle, len(existing)+len(merged))
	for _, art := range existing {
		byID[art.ID] = art
	}
	for id, art := range merged {
		byID[id] = art
	}
	final := make([]models.NormalizedArticle, 0, len(byID))
	for _, art := range byID {
		art.Category, art.Tags = classify.ClassifyAndTag(art.Title, art.Summary, art.Tags, e.cfg.TagLimit)
		final = append(final, art)
	}

	// 6. Relevance filter.
	kept := final[:0]
	for _, art := range final {
		if classify.IsRelevant(art, e.cfg.SourceAllowList) {
			kept = append(kept, art)
		}
	}
	final = kept

	// 7. Everything filtered out: persist a distinct placeholder instead of
	// an empty file.
	if len(final) == 0 {
		final = []models.NormalizedArticle{noRelevantNewsPlaceholder()}
	}

	// 8–9. Sort newest first and replace the file atomically.
	sortNewestFirst(final)
	if err := e.store.Replace(final); err != nil {
		e.log.Error("persist news failed", zap.Error(err))
		return len(existing)
	}

	e.log.Info("ingest complete", zap.Int("records", len(final)))
	return len(final)
}

// storeIsEmpty treats a store holding only placeholder records as empty so
// a later successful cycle replaces them.
func storeIsEmpty(items []models.NormalizedArticle) bool {
	for _, a := range items {
		if a.Category != models.CategorySystem {
			return false
		}
	}
	return true
}

func noNewsPlaceholder() models.NormalizedArticle {
	return models.NormalizedArticle{
		ID:       PlaceholderNoNews,
		Title:    "No news available",
		Summary:  "All providers failed or API keys missing. Check your .env and try again.",
		Source:   "FinPulse",
		URL:      "#",
		Date:     utils.TodayUTC(),
		Category: models.CategorySystem,
		Tags:     []string{"error"},
	}
}

func noRelevantNewsPlaceholder() models.NormalizedArticle {
	return models.NormalizedArticle{
		ID:       PlaceholderNoRelevantNews,
		Title:    "No relevant news",
		Summary:  "Providers returned data but nothing passed the relevance filter. Review the source allow-list.",
		Source:   "FinPulse",
		URL:      "#",
		Date:     utils.TodayUTC(),
		Category: models.CategorySystem,
		Tags:     []string{"filtered"},
	}
}
