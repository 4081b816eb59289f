package macro

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// FredSource fetches observations from the FRED API, newest first.
type FredSource interface {
	Enabled() bool
	Observations(ctx context.Context, seriesID string, limit int) ([]models.MacroObservation, error)
}

// EIASource fetches observations from the EIA API, newest first.
type EIASource interface {
	Enabled() bool
	Series(ctx context.Context, seriesID string, limit int) ([]models.MacroObservation, error)
}

// Builder assembles the full macro-trends payload. Each metric is built in
// isolation; a failure anywhere swaps in that metric's static default and
// never touches its neighbors.
type Builder struct {
	fred FredSource
	eia  EIASource
	log  *zap.Logger
}

// NewBuilder wires a builder. Either source may be nil.
func NewBuilder(fred FredSource, eia EIASource, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{fred: fred, eia: eia, log: log}
}

// HasCredentials reports whether at least one live source is configured.
// The cache validity rule depends on it.
func (b *Builder) HasCredentials() bool {
	if b.fred != nil && b.fred.Enabled() {
		return true
	}
	if b.eia != nil && b.eia.Enabled() {
		return true
	}
	return false
}

// Build assembles all four categories. Always returns the full shape.
func (b *Builder) Build(ctx context.Context) models.MacroTrends {
	trends := models.MacroTrends{
		Updated:    utils.NowRFC3339(),
		Categories: make([]models.MacroCategory, 0, len(categories)),
	}
	for _, cat := range categories {
		out := models.MacroCategory{
			ID:      cat.id,
			Title:   cat.title,
			Metrics: make([]models.MacroMetric, 0, len(cat.metrics)),
		}
		for _, def := range cat.metrics {
			out.Metrics = append(out.Metrics, b.buildMetric(ctx, def))
		}
		trends.Categories = append(trends.Categories, out)
	}
	return trends
}

func (b *Builder) buildMetric(ctx context.Context, def metricDef) models.MacroMetric {
	obs, err := b.fetch(ctx, def)
	if err != nil {
		b.log.Warn("macro series fetch failed, using fallback",
			zap.String("metric", def.id),
			zap.String("series", def.seriesID),
			zap.Error(err))
		return fallbackMetric(def.id)
	}
	if len(obs) < def.minObservations() {
		if len(obs) > 0 {
			b.log.Warn("macro series too short, using fallback",
				zap.String("metric", def.id),
				zap.Int("observations", len(obs)))
		}
		return fallbackMetric(def.id)
	}

	series := transformSeries(obs, def.transform, def.scaleFactor())
	if len(series) == 0 {
		return fallbackMetric(def.id)
	}

	latest := series[len(series)-1]
	value := formatValue(def, latest.Value)
	date := displayDate(latest.Date)

	metric := models.MacroMetric{
		ID:      def.id,
		Name:    def.name,
		Summary: fmt.Sprintf("%s at %s (%s)", def.name, value, date),
		Detail:  fmt.Sprintf(def.detailFmt, value, date),
		History: series,
	}
	if len(series) > 1 {
		change := latest.Value - series[len(series)-2].Value
		metric.Delta = fmt.Sprintf("%+.*f%s vs prior", def.precision, change, deltaUnit(def))
	}
	return metric
}

func (b *Builder) fetch(ctx context.Context, def metricDef) ([]models.MacroObservation, error) {
	switch def.provider {
	case providerFRED:
		if b.fred == nil || !b.fred.Enabled() {
			return nil, nil
		}
		return b.fred.Observations(ctx, def.seriesID, historyLookback)
	case providerEIA:
		if b.eia == nil || !b.eia.Enabled() {
			return nil, nil
		}
		return b.eia.Series(ctx, def.seriesID, historyLookback)
	}
	return nil, fmt.Errorf("unknown provider %q", def.provider)
}

// transformSeries converts a newest-first raw series into the transformed
// history, oldest to newest, keeping the most recent points. Points whose
// reference value is zero are skipped rather than dividing by it.
func transformSeries(obs []models.MacroObservation, t transform, scale float64) []models.MacroObservation {
	lag := 0
	switch t {
	case transformMoM, transformDiff:
		lag = 1
	case transformYoY:
		lag = 12
	}

	var out []models.MacroObservation
	for i := len(obs) - 1 - lag; i >= 0; i-- {
		cur := obs[i]
		var value float64
		switch t {
		case transformLevel:
			value = cur.Value * scale
		case transformDiff:
			value = (cur.Value - obs[i+1].Value) * scale
		case transformMoM, transformYoY:
			ref := obs[i+lag].Value
			if ref == 0 {
				continue
			}
			value = (cur.Value - ref) / ref * 100
		}
		out = append(out, models.MacroObservation{Date: cur.Date, Value: round2(value)})
	}
	if len(out) > historyPoints {
		out = out[len(out)-historyPoints:]
	}
	return out
}

func formatValue(def metricDef, v float64) string {
	signed := def.transform == transformMoM || def.transform == transformYoY || def.transform == transformDiff
	verb := "%.*f"
	if signed {
		verb = "%+.*f"
	}
	body := fmt.Sprintf(verb, def.precision, v)
	switch def.unit {
	case "$":
		return "$" + strings.TrimPrefix(body, "+")
	case "%":
		return body + "%"
	case "":
		return body
	default:
		return body + def.unit
	}
}

func deltaUnit(def metricDef) string {
	if def.transform == transformMoM || def.transform == transformYoY || def.unit == "%" {
		return "pp"
	}
	if def.unit == "$" {
		return ""
	}
	return def.unit
}

// displayDate renders YYYY-MM-DD as "Jan 2006" for first-of-month points
// (monthly and quarterly series) and "Jan 02, 2006" otherwise.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if t.Day() == 1 {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 02, 2006")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
