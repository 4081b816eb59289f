package macro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finpulse/finpulse/pkg/models"
)

func liveFred() *stubFred {
	obs := map[string][]models.MacroObservation{}
	for _, series := range []string{"UNRATE", "PAYEMS", "ICSA", "FEDFUNDS", "GDPC1", "RSAFS", "INDPRO", "UMCSENT"} {
		obs[series] = monthlyObs(4.2, 4.1)
	}
	values := make([]float64, 14)
	for i := range values {
		values[i] = 300 + float64(14-i)
	}
	obs["CPIAUCSL"] = monthlyObs(values...)
	obs["CPILFESL"] = monthlyObs(values...)
	return &stubFred{enabled: true, obs: obs}
}

func TestCacheReusesFreshPayload(t *testing.T) {
	fred := liveFred()
	cache := NewCache(NewBuilder(fred, &stubEIA{}, zap.NewNop()), 3600, zap.NewNop())

	first := cache.Get(context.Background(), false)
	callsAfterFirst := fred.calls
	require.Positive(t, callsAfterFirst)

	second := cache.Get(context.Background(), false)
	assert.Equal(t, callsAfterFirst, fred.calls, "fresh cache must not refetch")
	assert.Equal(t, first.Updated, second.Updated)
}

func TestCacheRebuildsDegenerateLivePayload(t *testing.T) {
	// Credentials present but the API failing: the all-fallback payload
	// carries no history, so the next read tries again.
	fred := &stubFred{enabled: true, err: errors.New("api down")}
	cache := NewCache(NewBuilder(fred, &stubEIA{}, zap.NewNop()), 3600, zap.NewNop())

	cache.Get(context.Background(), false)
	callsAfterFirst := fred.calls

	cache.Get(context.Background(), false)
	assert.Greater(t, fred.calls, callsAfterFirst)
}

func TestCacheKeepsFallbackPayloadWithoutCredentials(t *testing.T) {
	cache := NewCache(NewBuilder(&stubFred{}, &stubEIA{}, zap.NewNop()), 3600, zap.NewNop())

	first := cache.Get(context.Background(), false)
	second := cache.Get(context.Background(), false)
	assert.Equal(t, first.Updated, second.Updated)
	require.Len(t, second.Categories, 4)
}

func TestCacheForceRefreshWritesThrough(t *testing.T) {
	fred := liveFred()
	cache := NewCache(NewBuilder(fred, &stubEIA{}, zap.NewNop()), 3600, zap.NewNop())

	cache.Get(context.Background(), false)
	callsAfterFirst := fred.calls

	cache.Get(context.Background(), true)
	callsAfterForce := fred.calls
	assert.Greater(t, callsAfterForce, callsAfterFirst)

	// The forced rebuild is now the cached copy.
	cache.Get(context.Background(), false)
	assert.Equal(t, callsAfterForce, fred.calls)
}

func TestCacheReturnsDeepCopies(t *testing.T) {
	fred := liveFred()
	cache := NewCache(NewBuilder(fred, &stubEIA{}, zap.NewNop()), 3600, zap.NewNop())

	first := cache.Get(context.Background(), false)
	require.NotEmpty(t, first.Categories)
	require.NotEmpty(t, first.Categories[0].Metrics)
	require.NotEmpty(t, first.Categories[0].Metrics[0].History)

	first.Categories[0].Title = "mutated"
	first.Categories[0].Metrics[0].History[0].Value = -999

	second := cache.Get(context.Background(), false)
	assert.NotEqual(t, "mutated", second.Categories[0].Title)
	assert.NotEqual(t, -999.0, second.Categories[0].Metrics[0].History[0].Value)
}

func TestCacheZeroTTLExpiresImmediately(t *testing.T) {
	fred := liveFred()
	// A one-second TTL with builtAt set now is still fresh; use the
	// validity check directly for the expiry edge.
	cache := NewCache(NewBuilder(fred, &stubEIA{}, zap.NewNop()), 1, zap.NewNop())
	cache.Get(context.Background(), false)

	cache.mu.Lock()
	cache.builtAt = cache.builtAt.Add(-2 * time.Second)
	valid := cache.validLocked()
	cache.mu.Unlock()
	assert.False(t, valid)
}
