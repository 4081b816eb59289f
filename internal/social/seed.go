package social

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// Synthetic post generation for demo mode. The output mirrors the bundled
// fixture shape so it can replace it as the offline data source.

var seedLevels = []string{
	"VWAP", "pre-market high", "gap fill", "trend line", "weekly pivot", "supply wall",
}

var seedCatalysts = []string{
	"earnings call", "Fed speak", "short report", "option sweeps",
	"AI chatter", "deal rumor", "volume spike",
}

var seedVerbs = []string{
	"Watching", "Scalping", "Adding to", "Fading", "Accumulating", "Hedging", "Waiting on",
}

var seedExtras = []string{
	"Float rotation happening fast.",
	"Liquidity pockets are thin.",
	"Volume profile still bullish.",
	"Premiums exploding already.",
	"Risk defined under last pivot.",
	"Dollar strength is the only headwind.",
}

var seedTemplates = map[string][]string{
	"bullish": {
		"Bulls defending %[2]s with conviction",
		"Momentum screams higher if %[1]s holds %[2]s",
		"Call flow lighting up the tape",
		"Break of %[4].2f opens room to %[5].2f",
		"Accumulation zone all morning, dips keep getting bought",
	},
	"bearish": {
		"Rejecting %[2]s again; sellers still control the tape",
		"Flow shows repeated put walls hitting every pop",
		"Shorting pops until it reclaims %[4].2f",
		"Watch for liquidity rug if %[1]s loses %[2]s",
		"That %[3]s headline killed the bid",
	},
	"neutral": {
		"Range bound between %[4].2f and %[5].2f, waiting for confirmation",
		"Eyes on %[3]s later today before choosing a direction",
		"Letting this base out near %[2]s",
		"Gamma pin keeping things tight into the close",
		"Need a close over %[4].2f to care, under %[5].2f becomes a fade",
	},
}

func baselinePrice(symbol string) float64 {
	switch symbol {
	case "IXHL":
		return 3.25
	case "AAPL":
		return 215.0
	case "ONDS":
		return 9.75
	}
	return 25.0 + float64(len(symbol)%7)*3
}

func seedSentiment(rng *rand.Rand) string {
	// Weighted draw: bullish 46%, bearish 34%, neutral 20%.
	switch v := rng.Float64(); {
	case v < 0.46:
		return "bullish"
	case v < 0.80:
		return "bearish"
	default:
		return "neutral"
	}
}

func seedText(symbol, sentiment string, rng *rand.Rand) string {
	base := baselinePrice(symbol)
	priceA := max(0.25, base+(rng.Float64()*0.95-0.35)*base)
	priceB := max(0.25, base+(rng.Float64()*0.9-0.2)*base)

	templates := seedTemplates[sentiment]
	body := fmt.Sprintf(templates[rng.Intn(len(templates))],
		"$"+symbol,
		seedLevels[rng.Intn(len(seedLevels))],
		seedCatalysts[rng.Intn(len(seedCatalysts))],
		priceA,
		priceB,
	)
	return fmt.Sprintf("%s %s. %s",
		seedVerbs[rng.Intn(len(seedVerbs))],
		body,
		seedExtras[rng.Intn(len(seedExtras))])
}

// GeneratePosts builds count synthetic posts for one symbol. The same
// symbol, count, and seed always produce the same posts apart from their
// timestamps, which trail back from now at roughly five-minute spacing.
func GeneratePosts(symbol string, count int, seed int64) []models.SocialPost {
	symbol = utils.NormalizeSymbol(symbol)
	if count < 1 {
		count = 1
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s-%d-%d", symbol, seed, count)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	baseTime := time.Now().UTC().Add(-time.Duration(count*5) * time.Minute)
	posts := make([]models.SocialPost, 0, count)
	for idx := 1; idx <= count; idx++ {
		sentiment := seedSentiment(rng)
		createdAt := baseTime.Add(time.Duration(idx*5+rng.Intn(5)) * time.Minute)

		var likeMu, likeSigma float64
		switch sentiment {
		case "bullish":
			likeMu, likeSigma = 145, 55
		case "bearish":
			likeMu, likeSigma = 95, 45
		default:
			likeMu, likeSigma = 70, 35
		}
		likes := int(rng.NormFloat64()*likeSigma + likeMu)
		if likes < 0 {
			likes = 0
		}
		if likes > 900 {
			likes = 900
		}
		replies := rng.Intn(max(1, likes/7+3) + 1)
		reposts := rng.Intn(max(1, likes/5+2) + 1)

		likesV, repliesV, repostsV := likes, replies, reposts
		posts = append(posts, models.SocialPost{
			ID:          fmt.Sprintf("%s_%04d", strings.ToLower(symbol), idx),
			Source:      "x",
			Symbol:      symbol,
			Author:      fmt.Sprintf("%s_%s_%d", sentiment[:4], strings.ToLower(symbol), 100+rng.Intn(900)),
			URL:         fmt.Sprintf("https://twitter.com/sample/%s/%d", strings.ToLower(symbol), idx),
			CreatedAt:   utils.ISOFromTime(createdAt),
			Text:        seedText(symbol, sentiment, rng),
			LikeCount:   &likesV,
			ReplyCount:  &repliesV,
			RepostCount: &repostsV,
		})
	}
	return posts
}

// SeedFile writes a sample-data file with count synthetic posts per symbol.
// User timelines already present in the output file survive; otherwise the
// bundled defaults carry over.
func SeedFile(path string, symbols []string, count int, seed int64) error {
	users := loadSample().Users
	if raw, err := os.ReadFile(path); err == nil {
		var existing sampleData
		if json.Unmarshal(raw, &existing) == nil && len(existing.Users) > 0 {
			users = existing.Users
		}
	}

	payload := sampleData{
		Symbols: make(map[string][]models.SocialPost, len(symbols)),
		Users:   users,
	}
	for _, sym := range symbols {
		sym = utils.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		payload.Symbols[sym] = GeneratePosts(sym, count, seed)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sample data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample data: %w", err)
	}
	return nil
}
