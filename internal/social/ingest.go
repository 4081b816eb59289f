package social

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finpulse/finpulse/internal/config"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// MaxHistoryPoints bounds the per-symbol sentiment time series. The oldest
// entry drops when a new one would exceed it.
const MaxHistoryPoints = 60

// PostSearcher is the primary live post provider (X recent search).
type PostSearcher interface {
	Enabled() bool
	Search(ctx context.Context, symbol string, limit, lookbackHours int) ([]models.SocialPost, error)
}

// StreamSource is the keyless secondary post provider (StockTwits).
type StreamSource interface {
	Stream(ctx context.Context, symbol string, limit int) ([]models.SocialPost, error)
}

// Scanner returns one batch market snapshot for many symbols.
type Scanner interface {
	Scan(ctx context.Context, symbols []string) (map[string]models.ScannerRow, error)
}

// QuoteSource returns a live quote for one symbol.
type QuoteSource interface {
	Enabled() bool
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// DailySource returns recent daily bars for one symbol.
type DailySource interface {
	Enabled() bool
	GetDailySeries(ctx context.Context, symbol string, limit int) ([]models.Candle, error)
}

// Ingestor runs one social sentiment cycle: resolve posts per symbol with
// provider fallbacks, score and summarize them, enrich with prices, extend
// the history series, and overwrite the snapshot atomically.
type Ingestor struct {
	searcher PostSearcher
	stream   StreamSource
	scanner  Scanner
	quotes   QuoteSource
	daily    DailySource
	store    *Store
	scorer   Scorer
	cfg      config.SocialConfig
	log      *zap.Logger
}

// NewIngestor wires an ingestor. Any provider may be nil; resolution skips
// what is missing. Zero config fields get defaults.
func NewIngestor(searcher PostSearcher, stream StreamSource, scanner Scanner, quotes QuoteSource, daily DailySource, store *Store, cfg config.SocialConfig, log *zap.Logger) *Ingestor {
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = 50
	}
	if cfg.LookbackHours <= 0 {
		cfg.LookbackHours = 12
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"SPY", "QQQ", "AAPL", "NVDA", "TSLA"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{
		searcher: searcher,
		stream:   stream,
		scanner:  scanner,
		quotes:   quotes,
		daily:    daily,
		store:    store,
		scorer:   NewScorer(cfg.LikeWeight, cfg.RepostWeight),
		cfg:      cfg,
		log:      log,
	}
}

// Ingest runs one full cycle. Provider failures degrade per symbol; the only
// error returned is a failed snapshot write.
func (in *Ingestor) Ingest(ctx context.Context) (models.SocialSnapshot, error) {
	existing := in.store.Load()
	generatedAt := utils.NowRFC3339()

	// One scanner round trip covers every symbol.
	scan := in.scanSnapshot(ctx)

	var (
		mu      sync.Mutex
		reports = make(map[string]models.SymbolReport, len(in.cfg.Symbols))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, symbol := range in.cfg.Symbols {
		symbol := utils.NormalizeSymbol(symbol)
		if symbol == "" {
			continue
		}
		g.Go(func() error {
			report := in.buildReport(gctx, symbol, scan[symbol])
			mu.Lock()
			reports[symbol] = report
			mu.Unlock()
			return nil
		})
	}
	// Goroutines never return errors; fallbacks absorb provider failures.
	_ = g.Wait()

	snap := models.SocialSnapshot{
		GeneratedAt: generatedAt,
		Symbols:     map[string]models.SymbolReport{},
		History:     map[string][]models.HistoryEntry{},
	}
	for symbol, report := range reports {
		history := appendHistory(existing.History[symbol], historyEntry(generatedAt, report))
		report.History = history
		snap.Symbols[symbol] = report
		snap.History[symbol] = history
	}
	// Symbols dropped from the tracked set keep their recorded history.
	for symbol, history := range existing.History {
		if _, ok := snap.History[symbol]; ok {
			continue
		}
		if len(history) > MaxHistoryPoints {
			history = history[len(history)-MaxHistoryPoints:]
		}
		snap.History[symbol] = history
	}

	if err := in.store.Save(snap); err != nil {
		in.log.Error("social snapshot write failed", zap.Error(err))
		return existing, err
	}
	in.log.Info("social ingest complete",
		zap.Int("symbols", len(snap.Symbols)),
		zap.String("generated_at", generatedAt))
	return snap, nil
}

func (in *Ingestor) scanSnapshot(ctx context.Context) map[string]models.ScannerRow {
	if in.scanner == nil {
		return nil
	}
	rows, err := in.scanner.Scan(ctx, in.cfg.Symbols)
	if err != nil {
		in.log.Warn("market scanner unavailable", zap.Error(err))
		return nil
	}
	return rows
}

func (in *Ingestor) buildReport(ctx context.Context, symbol string, row models.ScannerRow) models.SymbolReport {
	posts, origin := in.resolvePosts(ctx, symbol)
	posts = in.scorer.Annotate(posts)
	summary := Summarize(posts)
	in.log.Debug("symbol scored",
		zap.String("symbol", symbol),
		zap.String("posts_origin", origin),
		zap.Int("posts", summary.Posts),
		zap.Float64("net_score", summary.NetScore))

	return models.SymbolReport{
		Summary: summary,
		Posts:   posts,
		Price:   in.enrichPrice(ctx, symbol, row),
	}
}

// resolvePosts walks the provider ladder: X search first, StockTwits when X
// is disabled or comes back empty, the bundled sample as the floor.
func (in *Ingestor) resolvePosts(ctx context.Context, symbol string) ([]models.SocialPost, string) {
	if in.searcher != nil && in.searcher.Enabled() {
		posts, err := in.searcher.Search(ctx, symbol, in.cfg.MaxPosts, in.cfg.LookbackHours)
		if err != nil {
			in.log.Warn("x search failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		} else if len(posts) > 0 {
			return posts, "x"
		}
	}
	if in.stream != nil {
		posts, err := in.stream.Stream(ctx, symbol, in.cfg.MaxPosts)
		if err != nil {
			in.log.Warn("stocktwits stream failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		} else if len(posts) > 0 {
			return posts, "stocktwits"
		}
	}
	return SamplePosts(symbol, in.cfg.MaxPosts), "sample"
}

// enrichPrice layers providers by priority: the scanner row seeds the
// snapshot, the live quote overwrites what it carries, and the daily series
// only fills fields still at zero plus the chart history.
func (in *Ingestor) enrichPrice(ctx context.Context, symbol string, row models.ScannerRow) models.PriceSnapshot {
	var price models.PriceSnapshot
	if row.Symbol != "" {
		price.Close = row.Close
		price.ChangePct = row.ChangePct
		price.ChangeAbs = row.ChangeAbs
		price.Volume = row.Volume
		price.Source = "tradingview"
	}

	if in.quotes != nil && in.quotes.Enabled() {
		quote, err := in.quotes.GetQuote(ctx, symbol)
		if err != nil {
			in.log.Warn("quote lookup failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		} else if quote != nil {
			price.Close = quote.Current
			price.Open = quote.Open
			price.High = quote.High
			price.Low = quote.Low
			price.PrevClose = quote.PrevClose
			price.ChangeAbs = quote.Change
			price.ChangePct = quote.ChangePct
			if quote.Timestamp > 0 {
				price.Timestamp = utils.DateFromUnix(quote.Timestamp)
			}
			price.Source = "finnhub"
		}
	}

	if in.daily != nil && in.daily.Enabled() {
		candles, err := in.daily.GetDailySeries(ctx, symbol, 30)
		if err != nil {
			in.log.Warn("daily series lookup failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		} else if len(candles) > 0 {
			price.History = candles
			last := candles[len(candles)-1]
			if price.Close == 0 {
				price.Close = last.Close
			}
			if price.Open == 0 {
				price.Open = last.Open
			}
			if price.High == 0 {
				price.High = last.High
			}
			if price.Low == 0 {
				price.Low = last.Low
			}
			if price.Volume == 0 {
				price.Volume = last.Volume
			}
			if price.PrevClose == 0 && len(candles) > 1 {
				price.PrevClose = candles[len(candles)-2].Close
			}
			if price.Source == "" {
				price.Source = "alphavantage"
			}
		}
	}
	return price
}

func historyEntry(timestamp string, report models.SymbolReport) models.HistoryEntry {
	entry := models.HistoryEntry{
		Timestamp:    timestamp,
		NetScore:     report.Summary.NetScore,
		BullishScore: report.Summary.BullishScore,
		BearishScore: report.Summary.BearishScore,
		Posts:        report.Summary.Posts,
	}
	if report.Price.Source != "" {
		changePct := report.Price.ChangePct
		closePrice := report.Price.Close
		volume := report.Price.Volume
		entry.ChangePct = &changePct
		entry.Close = &closePrice
		entry.Volume = &volume
	}
	return entry
}

func appendHistory(history []models.HistoryEntry, entry models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(history), len(history)+1)
	copy(out, history)
	out = append(out, entry)
	if len(out) > MaxHistoryPoints {
		out = out[len(out)-MaxHistoryPoints:]
	}
	return out
}
