// Package travel implements the Travel-Time Provider (C2): real, simulated,
// and hybrid resolution of origin/destination pairs to travel times, backed
// by a time-bounded cache and single-flight call deduplication.
package travel

import (
	"context"
	"fmt"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"github.com/andreypavlenko/jobmatch/internal/matching/resilience"
)

// Mode selects which resolution path the Provider uses.
type Mode string

const (
	ModeReal      Mode = "real"
	ModeSimulated Mode = "simulated"
	ModeHybrid    Mode = "hybrid"
)

// Client is the external call boundary C2 wraps with retry, circuit
// breaking, and timeout. A real HTTP client and a simulated estimator both
// implement it.
type Client interface {
	Resolve(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error)
}

// Provider implements the Travel-Time Provider contract: it never blocks
// indefinitely and never propagates an exception to a caller; it returns a
// distinguished Unavailable result only when no path is enabled or every
// enabled path has failed.
type Provider struct {
	mode      Mode
	real      Client
	simulated Client
	cache     *Cache
	guard     *callGuard
	breaker   CircuitBreaker
	onFallback func(reason string)
	retry     resilience.RetryConfig
}

// CircuitBreaker is the subset of the Resilience Layer's breaker the
// Provider needs; see internal/matching/resilience for the implementation.
type CircuitBreaker interface {
	Allow() bool
	RecordSuccess()
	RecordFailure()
}

// Option configures a Provider.
type Option func(*Provider)

// WithBreaker attaches a circuit breaker guarding the real client.
func WithBreaker(b CircuitBreaker) Option {
	return func(p *Provider) { p.breaker = b }
}

// WithFallbackObserver registers a callback invoked whenever the hybrid
// path falls through to the simulated estimator; useful for metrics/tests.
func WithFallbackObserver(fn func(reason string)) Option {
	return func(p *Provider) { p.onFallback = fn }
}

// WithRetryConfig configures the retry wrapping the external routing-API
// call (§4.8: Retry, the circuit breaker, and the fallback chain compose as
// three co-equal resilience mechanisms around C2). Defaults to
// resilience.DefaultRetryConfig() when not set.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(p *Provider) { p.retry = cfg }
}

// New constructs a Provider. real may be nil when mode is simulated-only;
// simulated may never be nil (it is the universal fallback and the sole
// path when mode is simulated-only).
func New(mode Mode, real, simulated Client, cache *Cache, opts ...Option) *Provider {
	p := &Provider{
		mode:      mode,
		real:      real,
		simulated: simulated,
		cache:     cache,
		guard:     newCallGuard(),
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unavailable is the sentinel TravelResult returned only when every
// resolution path is disabled or failed.
func Unavailable() canonical.TravelResult {
	return canonical.TravelResult{Unreachable: true, TextualSummary: "travel time unavailable"}
}

// Resolve returns a TravelResult for the query, consulting the cache first,
// then the configured mode's path(s). It never returns a non-nil error for
// soft failures; the returned result's Unreachable flag communicates that.
func (p *Provider) Resolve(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error) {
	key := cacheKey(q)
	if res, ok := p.cache.Get(key); ok {
		return res, nil
	}

	res, err := p.guard.do(key, func() (canonical.TravelResult, error) {
		return p.resolveUncached(ctx, q)
	})
	if err != nil {
		return Unavailable(), nil
	}
	if !res.Unreachable {
		p.cache.Put(key, res)
	}
	return res, nil
}

func (p *Provider) resolveUncached(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error) {
	switch p.mode {
	case ModeSimulated:
		if p.simulated == nil {
			return Unavailable(), nil
		}
		return p.simulated.Resolve(ctx, q)
	case ModeReal:
		if p.real == nil {
			return Unavailable(), nil
		}
		return p.callReal(ctx, q)
	case ModeHybrid:
		fallthrough
	default:
		if p.real != nil {
			if res, err := p.callReal(ctx, q); err == nil && !res.Unreachable {
				return res, nil
			}
			if p.onFallback != nil {
				p.onFallback("real path unavailable")
			}
		}
		if p.simulated != nil {
			return p.simulated.Resolve(ctx, q)
		}
		return Unavailable(), nil
	}
}

func (p *Provider) callReal(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error) {
	if p.breaker != nil && !p.breaker.Allow() {
		return canonical.TravelResult{Unreachable: true}, fmt.Errorf("circuit open")
	}
	var res canonical.TravelResult
	err := resilience.Retry(ctx, p.retry, func(ctx context.Context) error {
		var callErr error
		res, callErr = p.real.Resolve(ctx, q)
		if callErr != nil {
			return &resilience.TransientError{Err: callErr}
		}
		return nil
	})
	if p.breaker != nil {
		if err != nil || res.Unreachable {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return canonical.TravelResult{Unreachable: true}, err
	}
	return res, nil
}

func cacheKey(q canonical.TravelQuery) string {
	bucket := departureBucket(q.DepartureLocal)
	return fmt.Sprintf("%s|%s|%s|%s", normalizeKeyPart(q.Origin), normalizeKeyPart(q.Destination), q.Mode, bucket)
}

func departureBucket(departure string) string {
	if departure == "" {
		return "now"
	}
	return departure
}

func normalizeKeyPart(s string) string {
	return s
}
