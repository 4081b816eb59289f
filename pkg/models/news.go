// Package models defines the core data structures shared across FinPulse.
package models

// Category is the closed set of article categories assigned by the classifier.
type Category string

const (
	CategoryMarkets     Category = "Markets"
	CategoryOil         Category = "Oil"
	CategoryInflation   Category = "Inflation"
	CategoryCommodities Category = "Commodities"
	CategoryPolicy      Category = "Policy"
	CategoryGeopolitics Category = "Geopolitics"
	CategorySystem      Category = "System"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryMarkets,
	CategoryOil,
	CategoryInflation,
	CategoryCommodities,
	CategoryPolicy,
	CategoryGeopolitics,
	CategorySystem,
}

// NormalizedArticle is the canonical article shape every news provider maps into.
// ID is stable across ingest cycles: provider prefix + short hash of the URL
// (or title when the URL is absent), so the same story from the same provider
// collapses while the same story from two providers stays two records.
type NormalizedArticle struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Source   string   `json:"source"`
	URL      string   `json:"url"`
	Date     string   `json:"date"` // YYYY-MM-DD, UTC
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}

// TagCount pairs a tag with its occurrence count across the store.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
