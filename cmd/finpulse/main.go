// FinPulse: financial news, social sentiment, and macro trends aggregator.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finpulse/finpulse/api"
	"github.com/finpulse/finpulse/internal/config"
	"github.com/finpulse/finpulse/internal/logging"
	"github.com/finpulse/finpulse/internal/macro"
	"github.com/finpulse/finpulse/internal/news"
	"github.com/finpulse/finpulse/internal/provider"
	"github.com/finpulse/finpulse/internal/providers/alphavantage"
	"github.com/finpulse/finpulse/internal/providers/eia"
	"github.com/finpulse/finpulse/internal/providers/finnhub"
	"github.com/finpulse/finpulse/internal/providers/fredapi"
	"github.com/finpulse/finpulse/internal/providers/marketaux"
	"github.com/finpulse/finpulse/internal/providers/rssnews"
	"github.com/finpulse/finpulse/internal/providers/stocktwits"
	"github.com/finpulse/finpulse/internal/providers/tradingview"
	"github.com/finpulse/finpulse/internal/providers/twitterx"
	"github.com/finpulse/finpulse/internal/sched"
	"github.com/finpulse/finpulse/internal/social"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finpulse",
	Short: "FinPulse: financial news, social sentiment, and macro trends",
	Long: `FinPulse aggregates financial news from multiple providers, scores
social-media sentiment per symbol, and compiles macro economic trends,
serving everything through a JSON API backed by flat-file stores.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A local .env keeps provider keys out of the shell profile.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		log, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(seedCmd)
}

// services holds every wired core component.
type services struct {
	newsEngine  *news.Engine
	socialStore *social.Store
	socialIn    *social.Ingestor
	timelines   *social.TimelineService
	macroCache  *macro.Cache
	finnhub     *finnhub.Adapter
}

// buildServices wires adapters, stores, and caches from the loaded config.
// Adapter registration order is fixed; it decides id-collision tie-breaks.
func buildServices() *services {
	fh := finnhub.New(cfg.Providers.FinnhubKey)
	av := alphavantage.New(cfg.Providers.AlphaVantageKey)

	adapters := []provider.NewsAdapter{
		marketaux.New(cfg.Providers.MarketauxKey),
		fh,
	}
	if cfg.News.IncludeAlphaVantage {
		adapters = append(adapters, av)
	}
	if cfg.News.IncludeRSS {
		adapters = append(adapters, rssnews.New(cfg.News.RSSFeeds))
	}

	newsStore := news.NewStore(cfg.Data.NewsPath())
	socialStore := social.NewStore(cfg.Data.SocialPath())
	x := twitterx.New(cfg.Providers.TwitterBearer)

	return &services{
		newsEngine:  news.NewEngine(adapters, newsStore, cfg.News, log),
		socialStore: socialStore,
		socialIn: social.NewIngestor(
			x,
			stocktwits.New(),
			tradingview.New(),
			fh,
			av,
			socialStore,
			cfg.Social,
			log,
		),
		timelines: social.NewTimelineService(x, cfg.Data.Dir,
			cfg.Social.TimelineCacheMinutes, log),
		macroCache: macro.NewCache(
			macro.NewBuilder(
				fredapi.New(cfg.Providers.FredKey),
				eia.New(cfg.Providers.EIAKey),
				log,
			),
			cfg.Macro.TTLSeconds,
			log,
		),
		finnhub: fh,
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinPulse %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server with background refreshers",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := buildServices()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		runner := sched.New(log, ctx)
		runner.Every("news-ingest", cfg.News.RefreshSeconds, func(ctx context.Context) {
			count := svc.newsEngine.Ingest(ctx)
			log.Info("background news ingest", zap.Int("articles", count))
		})
		runner.Every("macro-refresh", cfg.Macro.RefreshSeconds, func(ctx context.Context) {
			svc.macroCache.Refresh(ctx)
		})
		// Cron fires one full interval from now; warm the stores first so a
		// cold start does not serve empty payloads until the first tick.
		go runner.RunOnce()
		runner.Start()
		defer runner.Stop()

		srv := api.NewServer(cfg, api.Deps{
			NewsEngine:  svc.newsEngine,
			SocialStore: svc.socialStore,
			SocialIn:    svc.socialIn,
			Timelines:   svc.timelines,
			MacroCache:  svc.macroCache,
			Quotes:      svc.finnhub,
		}, log)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Ingest Commands ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingest cycle",
}

var ingestNewsCmd = &cobra.Command{
	Use:   "news",
	Short: "Fetch, merge, and persist news from all configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := buildServices()
		count := svc.newsEngine.Ingest(cmd.Context())
		fmt.Printf("Persisted %d articles to %s\n", count, cfg.Data.NewsPath())
		return nil
	},
}

var ingestSocialCmd = &cobra.Command{
	Use:   "social",
	Short: "Fetch, score, and persist social sentiment for tracked symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		if symbols, _ := cmd.Flags().GetString("symbols"); symbols != "" {
			cfg.Social.Symbols = splitSymbols(symbols)
		}

		svc := buildServices()
		snap, err := svc.socialIn.Ingest(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Persisted %d symbols to %s\n", len(snap.Symbols), cfg.Data.SocialPath())
		return nil
	},
}

func init() {
	ingestSocialCmd.Flags().String("symbols", "", "comma-separated symbol list override (e.g. SPY,QQQ)")
	ingestCmd.AddCommand(ingestNewsCmd)
	ingestCmd.AddCommand(ingestSocialCmd)
}

// --- Refresh Command ---

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force-refresh a cached dataset",
}

var refreshMacroCmd = &cobra.Command{
	Use:   "macro",
	Short: "Rebuild the macro trends payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := buildServices()
		trends := svc.macroCache.Refresh(cmd.Context())
		total := 0
		for _, cat := range trends.Categories {
			total += len(cat.Metrics)
		}
		fmt.Printf("Rebuilt %d categories, %d metrics (updated %s)\n",
			len(trends.Categories), total, trends.Updated)
		return nil
	},
}

func init() {
	refreshCmd.AddCommand(refreshMacroCmd)
}

// --- Seed Command ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic demo data",
}

var seedSocialCmd = &cobra.Command{
	Use:   "social",
	Short: "Generate synthetic social posts for offline demo mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("posts")
		seed, _ := cmd.Flags().GetInt64("seed")
		output, _ := cmd.Flags().GetString("output")
		symbols := cfg.Social.Symbols
		if raw, _ := cmd.Flags().GetString("symbols"); raw != "" {
			symbols = splitSymbols(raw)
		}

		if err := social.SeedFile(output, symbols, count, seed); err != nil {
			return err
		}
		fmt.Printf("Wrote %d posts for each of %d symbols to %s\n",
			count, len(symbols), output)
		return nil
	},
}

func init() {
	seedSocialCmd.Flags().Int("posts", 1000, "post count per symbol")
	seedSocialCmd.Flags().Int64("seed", 42, "seed to keep samples deterministic")
	seedSocialCmd.Flags().String("output", "data/sample_twitter_posts.json", "output path")
	seedSocialCmd.Flags().String("symbols", "", "comma-separated symbol list override")
	seedCmd.AddCommand(seedSocialCmd)
}

func splitSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
