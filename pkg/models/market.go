package models

// Candle is one bar of daily price history used for charting.
// Time is a unix timestamp (seconds, UTC midnight for daily bars).
type Candle struct {
	Time   int64   `json:"time"`
	Close  float64 `json:"close"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

// Quote is a real-time quote from the quote API.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Current   float64 `json:"current"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Open      float64 `json:"open"`
	PrevClose float64 `json:"prev_close"`
	Timestamp int64   `json:"timestamp"` // unix seconds
}

// CompanyProfile is basic issuer information for a symbol.
type CompanyProfile struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"industry"`
	WebURL    string  `json:"weburl"`
	Logo      string  `json:"logo"`
	MarketCap float64 `json:"market_cap"`
}

// ScannerRow is one row of the market-scanner snapshot used to seed
// price enrichment.
type ScannerRow struct {
	Symbol    string  `json:"symbol"`
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
	ChangeAbs float64 `json:"change_abs"`
	Volume    float64 `json:"volume"`
}
