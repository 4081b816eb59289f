// Package macro builds the macro-trends payload: a fixed set of economic
// indicators fetched from statistical agencies, transformed, formatted,
// and cached. Every metric degrades to a bundled static default on its
// own, so the payload shape never changes with data availability.
package macro

// transform is how raw observations become the displayed series.
type transform int

const (
	transformLevel transform = iota // latest raw value
	transformMoM                    // percent change vs previous period
	transformYoY                    // percent change vs 12 periods back
	transformDiff                   // absolute change vs previous period
)

const (
	providerFRED = "fred"
	providerEIA  = "eia"

	// historyLookback is how many raw observations feed the history series;
	// historyPoints is how many transformed points survive.
	historyLookback = 104
	historyPoints   = 90
)

type metricDef struct {
	id        string
	name      string
	provider  string
	seriesID  string
	transform transform

	scale     float64 // applied to raw values before formatting, 0 means 1
	unit      string  // "%", "$", "K", "M bbl", ...
	precision int
	detailFmt string // two %s verbs: formatted value, display date
}

type categoryDef struct {
	id      string
	title   string
	metrics []metricDef
}

// The four fixed categories. Order is part of the payload contract.
var categories = []categoryDef{
	{
		id:    "job-market",
		title: "Job Market",
		metrics: []metricDef{
			{
				id: "unemployment-rate", name: "Unemployment rate",
				provider: providerFRED, seriesID: "UNRATE",
				transform: transformLevel, unit: "%", precision: 1,
				detailFmt: "The headline U-3 unemployment rate printed at %s as of %s.",
			},
			{
				id: "nonfarm-payrolls", name: "Nonfarm payrolls",
				provider: providerFRED, seriesID: "PAYEMS",
				transform: transformDiff, unit: "K", precision: 0,
				detailFmt: "Employers added %s jobs in the latest report (%s).",
			},
			{
				id: "jobless-claims", name: "Initial jobless claims",
				provider: providerFRED, seriesID: "ICSA",
				transform: transformLevel, scale: 0.001, unit: "K", precision: 0,
				detailFmt: "Weekly initial claims came in at %s for the week of %s.",
			},
		},
	},
	{
		id:    "inflation",
		title: "Inflation",
		metrics: []metricDef{
			{
				id: "cpi-yoy", name: "CPI YoY",
				provider: providerFRED, seriesID: "CPIAUCSL",
				transform: transformYoY, unit: "%", precision: 1,
				detailFmt: "Headline CPI is running at %s year over year as of %s.",
			},
			{
				id: "core-cpi-yoy", name: "Core CPI YoY",
				provider: providerFRED, seriesID: "CPILFESL",
				transform: transformYoY, unit: "%", precision: 1,
				detailFmt: "Core CPI, excluding food and energy, stands at %s year over year (%s).",
			},
			{
				id: "fed-funds", name: "Fed funds rate",
				provider: providerFRED, seriesID: "FEDFUNDS",
				transform: transformLevel, unit: "%", precision: 2,
				detailFmt: "The effective federal funds rate averaged %s in %s.",
			},
		},
	},
	{
		id:    "economic-activities",
		title: "Economic Activities",
		metrics: []metricDef{
			{
				id: "real-gdp", name: "Real GDP",
				provider: providerFRED, seriesID: "GDPC1",
				transform: transformLevel, unit: "B", precision: 0,
				detailFmt: "Real GDP is tracking at %s (SAAR, chained dollars) as of %s.",
			},
			{
				id: "retail-sales", name: "Retail sales MoM",
				provider: providerFRED, seriesID: "RSAFS",
				transform: transformMoM, unit: "%", precision: 1,
				detailFmt: "Advance retail sales moved %s month over month in %s.",
			},
			{
				id: "industrial-production", name: "Industrial production MoM",
				provider: providerFRED, seriesID: "INDPRO",
				transform: transformMoM, unit: "%", precision: 1,
				detailFmt: "Industrial production changed %s from the prior month (%s).",
			},
			{
				id: "consumer-sentiment", name: "Consumer sentiment",
				provider: providerFRED, seriesID: "UMCSENT",
				transform: transformLevel, unit: "", precision: 1,
				detailFmt: "The University of Michigan sentiment index reads %s for %s.",
			},
		},
	},
	{
		id:    "energy",
		title: "Energy",
		metrics: []metricDef{
			{
				id: "wti-crude", name: "WTI crude",
				provider: providerEIA, seriesID: "PET.RWTC.D",
				transform: transformLevel, unit: "$", precision: 2,
				detailFmt: "WTI spot crude trades around %s per barrel (latest %s).",
			},
			{
				id: "natural-gas", name: "Natural gas",
				provider: providerEIA, seriesID: "NG.RNGWHHD.M",
				transform: transformLevel, unit: "$", precision: 2,
				detailFmt: "Henry Hub natural gas averaged %s per MMBtu in %s.",
			},
			{
				id: "crude-inventories", name: "US crude inventories",
				provider: providerEIA, seriesID: "PET.WCESTUS1.W",
				transform: transformLevel, scale: 0.001, unit: "M bbl", precision: 1,
				detailFmt: "Commercial crude stocks sit near %s as of the week of %s.",
			},
		},
	},
}

// minObservations is the smallest raw window that makes the transform
// computable for the latest point.
func (d metricDef) minObservations() int {
	switch d.transform {
	case transformYoY:
		return 13
	case transformMoM, transformDiff:
		return 2
	default:
		return 1
	}
}

func (d metricDef) scaleFactor() float64 {
	if d.scale == 0 {
		return 1
	}
	return d.scale
}
