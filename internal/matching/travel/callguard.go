package travel

import (
	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
	"golang.org/x/sync/singleflight"
)

// callGuard deduplicates concurrent external-call work for identical
// in-flight queries, per §5 ("a per-key guard for external-call
// deduplication (single-flight)").
type callGuard struct {
	group singleflight.Group
}

func newCallGuard() *callGuard {
	return &callGuard{}
}

func (g *callGuard) do(key string, fn func() (canonical.TravelResult, error)) (canonical.TravelResult, error) {
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return canonical.TravelResult{}, err
	}
	return v.(canonical.TravelResult), nil
}
