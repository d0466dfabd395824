package travel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

type countingClient struct {
	calls     int32
	fail      bool
	result    canonical.TravelResult
}

func (c *countingClient) Resolve(_ context.Context, _ canonical.TravelQuery) (canonical.TravelResult, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.fail {
		return canonical.TravelResult{Unreachable: true}, errors.New("simulated failure")
	}
	return c.result, nil
}

func TestProviderCacheHitSkipsRealCall(t *testing.T) {
	real := &countingClient{result: canonical.TravelResult{DurationMinutes: 20}}
	sim := NewSimulatedEstimator()
	cache := NewCache(time.Hour, 100)
	p := New(ModeHybrid, real, sim, cache)

	q := canonical.TravelQuery{Origin: "Paris", Destination: "Lyon", Mode: canonical.ModeDriving}

	if _, err := p.Resolve(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Resolve(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := atomic.LoadInt32(&real.calls); calls != 1 {
		t.Fatalf("expected exactly 1 real call due to cache hit on second lookup, got %d", calls)
	}
}

func TestProviderHybridFallsBackToSimulated(t *testing.T) {
	real := &countingClient{fail: true}
	sim := NewSimulatedEstimator()
	cache := NewCache(time.Hour, 100)
	p := New(ModeHybrid, real, sim, cache)

	q := canonical.TravelQuery{Origin: "Paris", Destination: "Marseille", Mode: canonical.ModeDriving}
	res, err := p.Resolve(context.Background(), q)
	if err != nil {
		t.Fatalf("hybrid mode must never return an error to the caller, got %v", err)
	}
	if res.Unreachable {
		t.Fatal("hybrid mode must have 100%% availability; got Unreachable")
	}
}

func TestProviderSimulatedOnlyNeverUnavailable(t *testing.T) {
	sim := NewSimulatedEstimator()
	cache := NewCache(time.Hour, 100)
	p := New(ModeSimulated, nil, sim, cache)

	res, err := p.Resolve(context.Background(), canonical.TravelQuery{
		Origin: "Lille", Destination: "Nantes", Mode: canonical.ModeDriving,
	})
	if err != nil || res.Unreachable {
		t.Fatalf("simulated path must always resolve, got res=%+v err=%v", res, err)
	}
}

func TestCacheEvictsOldestWhenFull(t *testing.T) {
	cache := NewCache(time.Hour, 2)
	cache.Put("a", canonical.TravelResult{DurationMinutes: 1})
	cache.Put("b", canonical.TravelResult{DurationMinutes: 2})
	cache.Put("c", canonical.TravelResult{DurationMinutes: 3})

	if _, ok := cache.Get("a"); ok {
		t.Fatal("expected oldest entry 'a' to have been evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatal("expected newest entry 'c' to remain")
	}
}

func TestCacheRespectsTTL(t *testing.T) {
	cache := NewCache(time.Millisecond, 10)
	cache.Put("k", canonical.TravelResult{DurationMinutes: 5})
	time.Sleep(5 * time.Millisecond)
	if _, ok := cache.Get("k"); ok {
		t.Fatal("expected expired entry to be treated as a miss")
	}
}
