// Package config handles configuration loading for FinPulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"      yaml:"data"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Social    SocialConfig    `mapstructure:"social"    yaml:"social"`
	Macro     MacroConfig     `mapstructure:"macro"     yaml:"macro"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// DataConfig holds flat-file store locations.
type DataConfig struct {
	Dir        string `mapstructure:"dir"         yaml:"dir"`
	NewsFile   string `mapstructure:"news_file"   yaml:"news_file"`
	SocialFile string `mapstructure:"social_file" yaml:"social_file"`
}

// NewsPath returns the path of the news store file.
func (d DataConfig) NewsPath() string { return filepath.Join(d.Dir, d.NewsFile) }

// SocialPath returns the path of the social store file.
func (d DataConfig) SocialPath() string { return filepath.Join(d.Dir, d.SocialFile) }

// ProvidersConfig holds per-provider credentials. Every key is optional:
// a missing key disables that provider, it never produces an error.
type ProvidersConfig struct {
	MarketauxKey    string `mapstructure:"marketaux_key"    yaml:"marketaux_key"`
	FinnhubKey      string `mapstructure:"finnhub_key"      yaml:"finnhub_key"`
	AlphaVantageKey string `mapstructure:"alphavantage_key" yaml:"alphavantage_key"`
	TwitterBearer   string `mapstructure:"twitter_bearer"   yaml:"twitter_bearer"`
	FredKey         string `mapstructure:"fred_key"         yaml:"fred_key"`
	EIAKey          string `mapstructure:"eia_key"          yaml:"eia_key"`
}

// NewsConfig holds news-pipeline settings.
type NewsConfig struct {
	LimitPerSource      int      `mapstructure:"limit_per_source"      yaml:"limit_per_source"`
	TagLimit            int      `mapstructure:"tag_limit"             yaml:"tag_limit"`
	IncludeAlphaVantage bool     `mapstructure:"include_alpha_vantage" yaml:"include_alpha_vantage"`
	IncludeRSS          bool     `mapstructure:"include_rss"           yaml:"include_rss"`
	RSSFeeds            []string `mapstructure:"rss_feeds"             yaml:"rss_feeds"`
	RefreshSeconds      int      `mapstructure:"refresh_seconds"       yaml:"refresh_seconds"`
	SourceAllowList     []string `mapstructure:"source_allow_list"     yaml:"source_allow_list"`
}

// SocialConfig holds social-sentiment settings.
type SocialConfig struct {
	Symbols       []string `mapstructure:"symbols"        yaml:"symbols"`
	MaxPosts      int      `mapstructure:"max_posts"      yaml:"max_posts"`
	LookbackHours int      `mapstructure:"lookback_hours" yaml:"lookback_hours"`
	// Engagement amplification: weight = score * (1 + likes*LikeWeight + reposts*RepostWeight).
	// Heuristic constants, kept configurable for tuning.
	LikeWeight           float64 `mapstructure:"like_weight"            yaml:"like_weight"`
	RepostWeight         float64 `mapstructure:"repost_weight"          yaml:"repost_weight"`
	TimelineCacheMinutes int     `mapstructure:"timeline_cache_minutes" yaml:"timeline_cache_minutes"`
}

// MacroConfig holds macro-trends cache settings.
type MacroConfig struct {
	TTLSeconds     int `mapstructure:"ttl_seconds"     yaml:"ttl_seconds"`
	RefreshSeconds int `mapstructure:"refresh_seconds" yaml:"refresh_seconds"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finpulse/config.yaml (home directory)
//  3. /etc/finpulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINPULSE_<SECTION>_<KEY>, e.g., FINPULSE_PROVIDERS_FINNHUB_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finpulse"))
	v.AddConfigPath("/etc/finpulse")

	v.SetEnvPrefix("FINPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found: fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.news_file", "news.json")
	v.SetDefault("data.social_file", "social_sentiment.json")

	// News defaults
	v.SetDefault("news.limit_per_source", 30)
	v.SetDefault("news.tag_limit", 6)
	v.SetDefault("news.include_alpha_vantage", true)
	v.SetDefault("news.include_rss", false)
	v.SetDefault("news.refresh_seconds", 2*60*60) // 2 hours
	v.SetDefault("news.source_allow_list", []string{
		"reuters", "bloomberg", "cnbc", "marketwatch", "wsj", "financial times",
		"ft.com", "yahoo", "barron", "investing.com", "seekingalpha",
		"marketaux", "finnhub", "alpha vantage", "benzinga", "forbes",
		"business insider", "the economist", "oilprice",
	})

	// Social defaults
	v.SetDefault("social.symbols", []string{"SPY", "QQQ", "AAPL", "NVDA", "TSLA"})
	v.SetDefault("social.max_posts", 50)
	v.SetDefault("social.lookback_hours", 12)
	v.SetDefault("social.like_weight", 0.02)
	v.SetDefault("social.repost_weight", 0.05)
	v.SetDefault("social.timeline_cache_minutes", 10)

	// Macro defaults
	v.SetDefault("macro.ttl_seconds", 2*60*60) // 2 hours
	v.SetDefault("macro.refresh_seconds", 2*60*60)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads credential keys from the plain environment
// variable names the original deployment used, so an existing .env keeps
// working without the FINPULSE_ prefix.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("MARKETAUX_KEY"); key != "" {
		cfg.Providers.MarketauxKey = key
	}
	if key := os.Getenv("FINNHUB_KEY"); key != "" {
		cfg.Providers.FinnhubKey = key
	}
	if key := os.Getenv("ALPHAVANTAGE_KEY"); key != "" {
		cfg.Providers.AlphaVantageKey = key
	}
	if key := os.Getenv("TWITTER_BEARER_TOKEN"); key != "" {
		cfg.Providers.TwitterBearer = key
	}
	if key := os.Getenv("SOCIAL_TWITTER_BEARER_TOKEN"); key != "" {
		cfg.Providers.TwitterBearer = key
	}
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		cfg.Providers.FredKey = key
	}
	if key := os.Getenv("EIA_API_KEY"); key != "" {
		cfg.Providers.EIAKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
