package models

// MacroObservation is one (date, value) point of an economic time series,
// as returned by the statistical-agency providers.
type MacroObservation struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// MacroMetric is one formatted indicator on the macro-trends payload.
// Summary and Detail are always non-empty: a metric that cannot be built
// from live data falls back whole-cloth to a bundled static default.
type MacroMetric struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Summary string             `json:"summary"`
	Detail  string             `json:"detail"`
	Delta   string             `json:"delta,omitempty"`
	History []MacroObservation `json:"history,omitempty"` // oldest → newest
}

// MacroCategory groups related metrics for display.
type MacroCategory struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Metrics []MacroMetric `json:"metrics"`
}

// MacroTrends is the aggregate payload served to the web layer.
type MacroTrends struct {
	Updated    string          `json:"updated"` // RFC3339 UTC
	Categories []MacroCategory `json:"categories"`
}
