package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEveryClampsToFloor(t *testing.T) {
	r := New(zap.NewNop(), context.Background())
	// Registration with a sub-floor interval must not panic or reject.
	r.Every("news", 1, func(context.Context) {})
	r.Every("macro", 7200, func(context.Context) {})
}

func TestStopWaitsForCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(zap.NewNop(), ctx)
	var runs atomic.Int32
	r.Every("noop", 3600, func(context.Context) { runs.Add(1) })

	r.Start()
	r.Stop()
	// Nothing fired within the interval; stop returns promptly.
	assert.Equal(t, int32(0), runs.Load())
}

func TestRunOnceFiresBeforeFirstTick(t *testing.T) {
	r := New(zap.NewNop(), context.Background())

	var runs atomic.Int32
	r.Every("warmup", 3600, func(context.Context) { runs.Add(1) })

	// No Start, no tick elapsed; the warm-up path alone runs the job.
	r.RunOnce()
	assert.Equal(t, int32(1), runs.Load())
}

func TestRunOnceSkippedAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(zap.NewNop(), ctx)

	var runs atomic.Int32
	r.Every("warmup", 3600, func(context.Context) { runs.Add(1) })
	cancel()

	r.RunOnce()
	assert.Equal(t, int32(0), runs.Load())
}

func TestJobSkippedAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(zap.NewNop(), ctx)

	var runs atomic.Int32
	r.Every("job", 60, func(context.Context) { runs.Add(1) })
	cancel()

	r.Start()
	time.Sleep(10 * time.Millisecond)
	r.Stop()
	assert.Equal(t, int32(0), runs.Load())
}
