package macro

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finpulse/finpulse/pkg/models"
)

type stubFred struct {
	obs     map[string][]models.MacroObservation
	err     error
	enabled bool
	calls   int
}

func (s *stubFred) Enabled() bool { return s.enabled }

func (s *stubFred) Observations(_ context.Context, seriesID string, _ int) ([]models.MacroObservation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.obs[seriesID], nil
}

type stubEIA struct {
	obs     map[string][]models.MacroObservation
	err     error
	enabled bool
	calls   int
}

func (s *stubEIA) Enabled() bool { return s.enabled }

func (s *stubEIA) Series(_ context.Context, seriesID string, _ int) ([]models.MacroObservation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.obs[seriesID], nil
}

// monthlyObs builds a newest-first monthly series ending at 2025-08-01.
func monthlyObs(values ...float64) []models.MacroObservation {
	out := make([]models.MacroObservation, len(values))
	for i, v := range values {
		month := 8 - i
		year := 2025
		for month < 1 {
			month += 12
			year--
		}
		out[i] = models.MacroObservation{
			Date:  fmt.Sprintf("%04d-%02d-01", year, month),
			Value: v,
		}
	}
	return out
}

func TestFallbackCompleteness(t *testing.T) {
	b := NewBuilder(&stubFred{}, &stubEIA{}, zap.NewNop())
	trends := b.Build(context.Background())

	require.Len(t, trends.Categories, 4)
	total := 0
	for _, cat := range trends.Categories {
		assert.NotEmpty(t, cat.ID)
		assert.NotEmpty(t, cat.Title)
		for _, m := range cat.Metrics {
			total++
			assert.NotEmpty(t, m.Summary, "metric %s", m.ID)
			assert.NotEmpty(t, m.Detail, "metric %s", m.ID)
		}
	}
	assert.Equal(t, 13, total)

	sizes := []int{len(trends.Categories[0].Metrics), len(trends.Categories[1].Metrics),
		len(trends.Categories[2].Metrics), len(trends.Categories[3].Metrics)}
	assert.Equal(t, []int{3, 3, 4, 3}, sizes)
}

func TestTransformSeriesLevel(t *testing.T) {
	obs := monthlyObs(230000, 225000)
	series := transformSeries(obs, transformLevel, 0.001)
	require.Len(t, series, 2)
	// Oldest first.
	assert.Equal(t, 225.0, series[0].Value)
	assert.Equal(t, 230.0, series[1].Value)
	assert.Equal(t, "2025-07-01", series[0].Date)
}

func TestTransformSeriesMoM(t *testing.T) {
	obs := monthlyObs(110, 100, 80)
	series := transformSeries(obs, transformMoM, 1)
	require.Len(t, series, 2)
	assert.Equal(t, 25.0, series[0].Value) // 100 vs 80
	assert.Equal(t, 10.0, series[1].Value) // 110 vs 100
}

func TestTransformSeriesYoY(t *testing.T) {
	values := make([]float64, 14)
	for i := range values {
		values[i] = 100
	}
	values[0] = 103.1 // latest is +3.1% vs 12 months back
	obs := monthlyObs(values...)

	series := transformSeries(obs, transformYoY, 1)
	require.Len(t, series, 2)
	assert.Equal(t, 3.1, series[1].Value)
	assert.Equal(t, 0.0, series[0].Value)
}

func TestTransformSeriesDiff(t *testing.T) {
	obs := monthlyObs(159500, 159325)
	series := transformSeries(obs, transformDiff, 1)
	require.Len(t, series, 1)
	assert.Equal(t, 175.0, series[0].Value)
}

func TestTransformSeriesSkipsZeroReference(t *testing.T) {
	obs := monthlyObs(110, 0, 80)
	series := transformSeries(obs, transformMoM, 1)
	require.Len(t, series, 1)
	assert.Equal(t, -100.0, series[0].Value) // 0 vs 80; 110 vs 0 skipped
}

func TestBuildMetricLive(t *testing.T) {
	fred := &stubFred{enabled: true, obs: map[string][]models.MacroObservation{
		"UNRATE": monthlyObs(4.2, 4.1),
	}}
	b := NewBuilder(fred, &stubEIA{}, zap.NewNop())

	metric := b.buildMetric(context.Background(), categories[0].metrics[0])
	assert.Equal(t, "unemployment-rate", metric.ID)
	assert.Equal(t, "Unemployment rate at 4.2% (Aug 2025)", metric.Summary)
	assert.Contains(t, metric.Detail, "4.2%")
	assert.Equal(t, "+0.1pp vs prior", metric.Delta)
	require.Len(t, metric.History, 2)
}

func TestBuildMetricPayrollsDiff(t *testing.T) {
	fred := &stubFred{enabled: true, obs: map[string][]models.MacroObservation{
		"PAYEMS": monthlyObs(159500, 159325, 159200),
	}}
	b := NewBuilder(fred, &stubEIA{}, zap.NewNop())

	metric := b.buildMetric(context.Background(), categories[0].metrics[1])
	assert.Equal(t, "Nonfarm payrolls at +175K (Aug 2025)", metric.Summary)
	assert.Equal(t, "+50K vs prior", metric.Delta) // 175 vs 125
}

func TestBuildMetricEIADollars(t *testing.T) {
	eia := &stubEIA{enabled: true, obs: map[string][]models.MacroObservation{
		"PET.RWTC.D": {
			{Date: "2025-08-28", Value: 64.52},
			{Date: "2025-08-27", Value: 65.10},
		},
	}}
	b := NewBuilder(&stubFred{}, eia, zap.NewNop())

	metric := b.buildMetric(context.Background(), categories[3].metrics[0])
	assert.Equal(t, "WTI crude at $64.52 (Aug 28, 2025)", metric.Summary)
	assert.Equal(t, "-0.58 vs prior", metric.Delta)
}

func TestBuildMetricFallsBackOnError(t *testing.T) {
	fred := &stubFred{enabled: true, err: errors.New("api down")}
	b := NewBuilder(fred, &stubEIA{}, zap.NewNop())

	metric := b.buildMetric(context.Background(), categories[1].metrics[0])
	assert.Equal(t, fallbackMetric("cpi-yoy"), metric)
	assert.Empty(t, metric.History)
}

func TestBuildMetricFallsBackOnShortSeries(t *testing.T) {
	// YoY needs 13 observations; 3 is not enough.
	fred := &stubFred{enabled: true, obs: map[string][]models.MacroObservation{
		"CPIAUCSL": monthlyObs(320, 319, 318),
	}}
	b := NewBuilder(fred, &stubEIA{}, zap.NewNop())

	metric := b.buildMetric(context.Background(), categories[1].metrics[0])
	assert.Equal(t, fallbackMetric("cpi-yoy"), metric)
}

func TestHasCredentials(t *testing.T) {
	assert.False(t, NewBuilder(&stubFred{}, &stubEIA{}, zap.NewNop()).HasCredentials())
	assert.True(t, NewBuilder(&stubFred{enabled: true}, &stubEIA{}, zap.NewNop()).HasCredentials())
	assert.True(t, NewBuilder(&stubFred{}, &stubEIA{enabled: true}, zap.NewNop()).HasCredentials())
	assert.False(t, NewBuilder(nil, nil, zap.NewNop()).HasCredentials())
}
