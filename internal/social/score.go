// Package social implements the social sentiment pipeline: post resolution
// across providers with fallbacks, naive lexical scoring, engagement
// weighting, price enrichment, and the persisted per-symbol snapshot.
package social

import (
	"math"
	"sort"
	"strings"

	"github.com/finpulse/finpulse/pkg/models"
)

// Word lists for the naive polarity score. Substring matches, so "bullish"
// also hits via "bull".
var (
	positiveTokens = []string{"bull", "bullish", "buy", "call", "moon", "green", "long"}
	negativeTokens = []string{"bear", "bearish", "sell", "put", "red", "short", "dump"}
)

// Default engagement amplification constants; overridable through config.
const (
	DefaultLikeWeight   = 0.02
	DefaultRepostWeight = 0.05
)

// NaiveSentiment scores text by counting matched polarity tokens, +1 per
// bullish token and -1 per bearish token, case-insensitive.
func NaiveSentiment(text string) float64 {
	lowered := strings.ToLower(text)
	score := 0.0
	for _, tok := range positiveTokens {
		if strings.Contains(lowered, tok) {
			score++
		}
	}
	for _, tok := range negativeTokens {
		if strings.Contains(lowered, tok) {
			score--
		}
	}
	return score
}

// Scorer derives weight and engagement level for posts.
type Scorer struct {
	LikeWeight   float64
	RepostWeight float64
}

// NewScorer builds a scorer, substituting defaults for zero weights.
func NewScorer(likeWeight, repostWeight float64) Scorer {
	if likeWeight == 0 {
		likeWeight = DefaultLikeWeight
	}
	if repostWeight == 0 {
		repostWeight = DefaultRepostWeight
	}
	return Scorer{LikeWeight: likeWeight, RepostWeight: repostWeight}
}

// Weight computes the signed engagement-amplified sentiment for one post.
// A zero naive score stays zero regardless of engagement: popularity alone
// is not a signal.
func (s Scorer) Weight(post models.SocialPost) float64 {
	base := NaiveSentiment(post.Text)
	if base == 0 {
		return 0
	}
	likes := counter(post.LikeCount)
	reposts := counter(post.RepostCount)
	amplification := 1 + float64(likes)*s.LikeWeight + float64(reposts)*s.RepostWeight
	return round4(base * amplification)
}

// Level buckets a post by raw engagement counts.
func Level(post models.SocialPost) models.EngagementLevel {
	likes := counter(post.LikeCount)
	reposts := counter(post.RepostCount)
	switch {
	case likes >= 60 || reposts >= 20:
		return models.EngagementHigh
	case likes >= 25 || reposts >= 8:
		return models.EngagementMedium
	default:
		return models.EngagementLow
	}
}

// Annotate fills Weight and Level on every post in place.
func (s Scorer) Annotate(posts []models.SocialPost) []models.SocialPost {
	for i := range posts {
		posts[i].Weight = s.Weight(posts[i])
		posts[i].Level = Level(posts[i])
	}
	return posts
}

// Summarize aggregates annotated posts into the per-symbol summary,
// including the top 5 posts by absolute weight.
func Summarize(posts []models.SocialPost) models.SymbolSentimentSummary {
	summary := models.SymbolSentimentSummary{TopPosts: []models.TopPost{}}
	for _, p := range posts {
		summary.Posts++
		switch p.Level {
		case models.EngagementHigh:
			summary.Engagement.High++
		case models.EngagementMedium:
			summary.Engagement.Medium++
		default:
			summary.Engagement.Low++
		}
		switch {
		case p.Weight > 0:
			summary.BullishScore += p.Weight
			summary.BullishPosts++
		case p.Weight < 0:
			summary.BearishScore += -p.Weight
			summary.BearishPosts++
		default:
			summary.NeutralPosts++
		}
	}
	summary.BullishScore = round2(summary.BullishScore)
	summary.BearishScore = round2(summary.BearishScore)
	summary.NetScore = round2(summary.BullishScore - summary.BearishScore)
	summary.TopPosts = topPosts(posts, 5)
	return summary
}

// topPosts ranks by |weight| descending. The sort is stable over the input
// order so equal weights keep their fetch order.
func topPosts(posts []models.SocialPost, limit int) []models.TopPost {
	ranked := make([]models.SocialPost, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Weight) > math.Abs(ranked[j].Weight)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.TopPost, 0, len(ranked))
	for _, p := range ranked {
		weight := round2(p.Weight)
		sentiment := "neutral"
		if weight > 0 {
			sentiment = "bullish"
		} else if weight < 0 {
			sentiment = "bearish"
		}
		out = append(out, models.TopPost{
			ID:        p.ID,
			Author:    p.Author,
			CreatedAt: p.CreatedAt,
			Text:      p.Text,
			URL:       p.URL,
			Weight:    weight,
			Sentiment: sentiment,
			LikeCount: p.LikeCount,
			Reposts:   p.RepostCount,
			Level:     p.Level,
		})
	}
	return out
}

func counter(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
