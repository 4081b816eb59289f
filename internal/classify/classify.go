// Package classify assigns categories and tag sets to normalized articles
// using keyword and pattern heuristics over the text fields only. Both
// functions are pure: tagging an already-tagged article with its own tags as
// base yields the same set, so repeated ingest cycles never grow tags.
package classify

import (
	"regexp"
	"strings"

	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// keywordTag maps a compiled keyword pattern to the tag it produces.
type keywordTag struct {
	rx  *regexp.Regexp
	tag string
}

// Curated keyword → tag mapping. Order matters only for tag ordering in the
// output; dedup is by lowercase.
var keywordTags = []keywordTag{
	// Macro
	{regexp.MustCompile(`\b(inflation|cpi|ppi|deflator|core inflation)\b`), "Inflation"},
	{regexp.MustCompile(`\b(gdp|growth)\b`), "GDP"},
	{regexp.MustCompile(`\b(fed|fomc|powell)\b`), "Fed"},
	{regexp.MustCompile(`\b(boj|bank of japan)\b`), "BoJ"},
	{regexp.MustCompile(`\b(boe|bank of england)\b`), "BoE"},
	{regexp.MustCompile(`\b(ecb|lagarde)\b`), "ECB"},

	// Energy / commodities
	{regexp.MustCompile(`\b(opec\+?|opec)\b`), "OPEC"},
	{regexp.MustCompile(`\b(brent|wti|crude)\b`), "Oil"},
	{regexp.MustCompile(`\b(natural gas|lng)\b`), "NaturalGas"},
	{regexp.MustCompile(`\b(copper|aluminum|aluminium|nickel|zinc)\b`), "BaseMetals"},
	{regexp.MustCompile(`\b(wheat|corn|soy|soybeans|sugar)\b`), "Ags"},

	// Markets
	{regexp.MustCompile(`\b(equities|stocks|shares|equity)\b`), "Equities"},
	{regexp.MustCompile(`\b(treasuries|bonds|yields|yield)\b`), "Rates"},
	{regexp.MustCompile(`\b(fx|forex|currency|currencies|usd|eur|gbp|jpy|cny)\b`), "FX"},

	// Policy / geopolitics
	{regexp.MustCompile(`\b(sanction|sanctions)\b`), "Sanctions"},
	{regexp.MustCompile(`\b(tariff|tariffs)\b`), "Tariffs"},
	{regexp.MustCompile(`\b(fiscal|budget|deficit)\b`), "Fiscal"},
	{regexp.MustCompile(`\b(regulation|regulatory|legislation|bill)\b`), "Policy"},
	{regexp.MustCompile(`\b(congress|senate|parliament|white house)\b`), "Government"},
	{regexp.MustCompile(`\b(election|elections|campaign)\b`), "Elections"},
	{regexp.MustCompile(`\b(geopolitic|geopolitical|nato|conflict|war)\b`), "Geopolitics"},
}

// tickerRx matches cashtags like $TSLA in the original casing.
var tickerRx = regexp.MustCompile(`\$[A-Z]{1,5}\b`)

// upperTokenRx extracts bare uppercase tokens such as OPEC or CPI from titles.
var upperTokenRx = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

// stopTokens excludes uppercase tokens already covered by keywordTags and
// common all-caps words.
var stopTokens = map[string]bool{
	"AND": true, "THE": true, "FOR": true, "WITH": true, "FROM": true,
	"THIS": true, "THAT": true, "WHAT": true, "WILL": true, "HAVE": true,
	"HAS": true,
	"OPEC": true, "CPI": true, "PPI": true, "GDP": true, "ECB": true,
	"BOE": true, "BOJ": true, "FED": true,
}

// Category keyword ladders, checked most-specific first. Policy and
// geopolitics keywords win over commodity keywords so "sanctions on crude
// exports" lands in Geopolitics rather than Oil.
var (
	policyWords      = []string{"regulation", "regulatory", "legislation", "congress", "senate", "white house", "fiscal policy", "central bank", "rate decision", "fomc"}
	geopoliticsWords = []string{"sanction", "geopolitic", "nato", "war", "conflict", "invasion", "tariff", "election"}
	oilWords         = []string{"opec", "brent", "wti", "crude", "refinery", "gasoline", "diesel"}
	inflationWords   = []string{"inflation", "cpi", "ppi", "deflator", "core "}
	commodityWords   = []string{"copper", "aluminum", "nickel", "lme", "soy", "wheat", "corn", "commodit"}
)

// Categorize maps title+summary text to a category via the keyword ladder,
// defaulting to Markets.
func Categorize(title, summary string) models.Category {
	text := strings.ToLower(title + " " + summary)
	switch {
	case containsAny(text, geopoliticsWords):
		return models.CategoryGeopolitics
	case containsAny(text, policyWords):
		return models.CategoryPolicy
	case containsAny(text, oilWords):
		return models.CategoryOil
	case containsAny(text, inflationWords):
		return models.CategoryInflation
	case containsAny(text, commodityWords):
		return models.CategoryCommodities
	default:
		return models.CategoryMarkets
	}
}

// AutoTags generates the tag set for an article from its text fields.
// Candidates are, in order: existing base tags, keyword-dictionary matches,
// $TICKER cashtags, and bare uppercase tokens from the title only. The
// merged list is deduplicated by lowercase (first-seen casing preserved),
// ticker-looking tags are canonicalized with a leading "$", and the result
// is truncated to limit.
func AutoTags(title, summary string, base []string, limit int) []string {
	text := strings.TrimSpace(title + " " + summary)

	var candidates []string
	candidates = append(candidates, base...)
	candidates = append(candidates, keywordMatches(text)...)
	candidates = append(candidates, tickers(text)...)
	candidates = append(candidates, upperTokens(title)...)

	tags := dedupePreserveOrder(candidates)
	for i, t := range tags {
		tags[i] = utils.CanonicalTicker(t)
	}
	// Canonicalizing can introduce case-insensitive duplicates ("$FED" from a
	// cashtag vs "Fed" from the dictionary stays distinct, but "$AAPL" vs
	// "AAPL" collapses). Dedup once more before the cap.
	tags = dedupePreserveOrder(tags)
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// ClassifyAndTag applies both heuristics in one pass; used by the merge
// engine on every record, every cycle.
func ClassifyAndTag(title, summary string, base []string, limit int) (models.Category, []string) {
	return Categorize(title, summary), AutoTags(title, summary, base, limit)
}

func keywordMatches(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, kt := range keywordTags {
		if kt.rx.MatchString(lower) {
			tags = append(tags, kt.tag)
		}
	}
	return tags
}

func tickers(text string) []string {
	var out []string
	for _, m := range tickerRx.FindAllString(text, -1) {
		out = append(out, strings.TrimPrefix(m, "$"))
	}
	return out
}

func upperTokens(title string) []string {
	var out []string
	for _, tok := range upperTokenRx.FindAllString(title, -1) {
		if !stopTokens[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// dedupePreserveOrder removes case-insensitive duplicates, keeping the
// first-seen original casing. This is what makes tagging idempotent: a
// dollar-prefixed ticker and its bare form collapse before truncation.
func dedupePreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		t := strings.TrimSpace(it)
		if t == "" {
			continue
		}
		norm := strings.ToLower(strings.TrimPrefix(t, "$"))
		if !seen[norm] {
			seen[norm] = true
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
