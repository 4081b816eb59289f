package infra

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)

	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(cancelled); err == nil {
		t.Error("want context error once the bucket is empty")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("refill never granted a token: %v", err)
	}
}
