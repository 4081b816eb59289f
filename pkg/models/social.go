package models

// EngagementLevel is the coarse engagement bucket for a social post.
type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "low"
	EngagementMedium EngagementLevel = "medium"
	EngagementHigh   EngagementLevel = "high"
)

// SocialPost is a normalized social-media post for one symbol.
// Weight and Level are derived after fetch; engagement counters are pointers
// because some providers (StockTwits public stream) do not expose them.
type SocialPost struct {
	ID        string `json:"id"`
	Source    string `json:"source"` // "x", "stocktwits", "sample"
	Symbol    string `json:"symbol"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"` // RFC3339 UTC
	Text      string `json:"text"`

	LikeCount   *int `json:"like_count"`
	ReplyCount  *int `json:"reply_count"`
	RepostCount *int `json:"repost_count"`

	Weight float64         `json:"weight"`
	Level  EngagementLevel `json:"engagement_level"`
}

// TopPost is the display projection of a post kept inside a summary.
type TopPost struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	CreatedAt string          `json:"created_at"`
	Text      string          `json:"text"`
	URL       string          `json:"url"`
	Weight    float64         `json:"weight"`
	Sentiment string          `json:"sentiment"` // "bullish", "bearish", "neutral"
	LikeCount *int            `json:"like_count"`
	Reposts   *int            `json:"repost_count"`
	Level     EngagementLevel `json:"engagement_level"`
}

// EngagementBreakdown tallies posts per engagement level.
type EngagementBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// SymbolSentimentSummary aggregates the scored posts for one symbol.
// Scores are non-negative except NetScore, which is bullish minus bearish.
type SymbolSentimentSummary struct {
	Posts        int                 `json:"posts"`
	BullishScore float64             `json:"bullish_score"`
	BearishScore float64             `json:"bearish_score"`
	NetScore     float64             `json:"net_score"`
	BullishPosts int                 `json:"bullish_posts"`
	BearishPosts int                 `json:"bearish_posts"`
	NeutralPosts int                 `json:"neutral_posts"`
	Engagement   EngagementBreakdown `json:"engagement_breakdown"`
	TopPosts     []TopPost           `json:"top_posts"`
}

// PriceSnapshot is the merged quote view attached to a symbol report.
// Fields are enriched from up to three providers in priority order:
// scanner snapshot seeds it, the direct quote API overwrites overlapping
// fields, and the daily series only fills remaining gaps.
type PriceSnapshot struct {
	Close     float64  `json:"close,omitempty"`
	Open      float64  `json:"open,omitempty"`
	High      float64  `json:"high,omitempty"`
	Low       float64  `json:"low,omitempty"`
	PrevClose float64  `json:"previous_close,omitempty"`
	ChangeAbs float64  `json:"change_abs,omitempty"`
	ChangePct float64  `json:"change_pct,omitempty"`
	Volume    float64  `json:"volume,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Source    string   `json:"source,omitempty"`
	History   []Candle `json:"history,omitempty"`
}

// HistoryEntry is one point of the per-symbol sentiment time series,
// appended once per ingest run and capped at a fixed retention window.
type HistoryEntry struct {
	Timestamp    string   `json:"timestamp"`
	NetScore     float64  `json:"net_score"`
	BullishScore float64  `json:"bullish_score"`
	BearishScore float64  `json:"bearish_score"`
	Posts        int      `json:"posts"`
	ChangePct    *float64 `json:"change_pct"`
	Close        *float64 `json:"close"`
	Volume       *float64 `json:"volume"`
}

// SymbolReport is the full persisted view for one symbol.
type SymbolReport struct {
	Summary SymbolSentimentSummary `json:"summary"`
	Posts   []SocialPost           `json:"posts"`
	History []HistoryEntry         `json:"history"`
	Price   PriceSnapshot          `json:"price"`
}

// SocialSnapshot is the persisted social store: one atomic file overwrite
// per ingest cycle, never per-symbol.
type SocialSnapshot struct {
	GeneratedAt string                    `json:"generated_at"`
	Symbols     map[string]SymbolReport   `json:"symbols"`
	History     map[string][]HistoryEntry `json:"history"`
}

// TimelinePost is a single post from a user timeline (display only).
type TimelinePost struct {
	ID   string `json:"id"`
	Date string `json:"date"` // RFC3339 UTC
	Text string `json:"text"`
	URL  string `json:"url"`
}
