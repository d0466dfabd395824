package resilience

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// FaultKind is one of the three degradation classes the pipeline reports to
// the Sentry side channel; the synchronous API envelope never raises, so
// this is the only place an operator sees the underlying exception.
type FaultKind string

const (
	FaultAlgorithm   FaultKind = "AlgorithmFault"
	FaultWorker      FaultKind = "WorkerFault"
	FaultPersistence FaultKind = "PersistenceFault"
)

// Reporter captures degradation events to Sentry without ever affecting the
// caller-visible result envelope.
type Reporter struct {
	enabled bool
}

// NewReporter constructs a Reporter. dsn empty disables capture entirely
// (sentry.Init is not called), so this is a no-op in environments without a
// configured DSN.
func NewReporter(dsn, environment string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{enabled: false}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return nil, err
	}
	return &Reporter{enabled: true}, nil
}

// Report sends a fault event with the given kind and context tags.
func (r *Reporter) Report(kind FaultKind, err error, tags map[string]string) {
	if !r.enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("fault_kind", string(kind))
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush blocks until pending events are sent or the timeout elapses; call
// during graceful shutdown.
func (r *Reporter) Flush() {
	if r.enabled {
		sentry.Flush(2 * time.Second)
	}
}
