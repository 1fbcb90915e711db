// Package patterns guards calls to remote collaborators with a bulkhead, a
// circuit breaker and a per-call timeout. Nothing here retries.
package patterns

import (
	"context"
	"time"

	"github.com/ashendes/bec-market/internal/models"
)

// GuardOptions configures a Guard
type GuardOptions struct {
	Concurrency int
	QueueWait   time.Duration
	Timeout     time.Duration
	Breaker     BreakerSettings
}

// DefaultGuardOptions suits the persistence backend.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		Concurrency: 10,
		QueueWait:   time.Second,
		Timeout:     DefaultTimeout,
		Breaker:     DefaultBreakerSettings(),
	}
}

// Guard wraps every call to one remote dependency.
type Guard struct {
	name     string
	timeout  time.Duration
	breaker  *CircuitBreakerWrapper
	bulkhead *Bulkhead
}

// NewGuard builds a guard for the dependency name, labelled with service in
// metrics. Zero fields in opts take the defaults, except Timeout.
func NewGuard(name, service string, opts GuardOptions) *Guard {
	defaults := DefaultGuardOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.QueueWait <= 0 {
		opts.QueueWait = defaults.QueueWait
	}
	if opts.Breaker == (BreakerSettings{}) {
		opts.Breaker = defaults.Breaker
	}

	return &Guard{
		name:     name,
		timeout:  opts.Timeout,
		breaker:  NewCircuitBreaker(name, service, opts.Breaker),
		bulkhead: NewBulkhead(opts.Concurrency, opts.QueueWait, name, service),
	}
}

// Do runs fn under the bulkhead, breaker and timeout. Not-found, conflict
// and validation errors from fn are returned unchanged; every other failure
// is returned as a models.RemoteError.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := g.bulkhead.Execute(ctx, func() error {
		callCtx, cancel := WithTimeout(ctx, g.timeout)
		defer cancel()

		_, cbErr := g.breaker.Execute(func() (interface{}, error) {
			return nil, fn(callCtx)
		})
		return FormatError(g.name, cbErr)
	})

	if err == nil || isAnswer(err) {
		return err
	}
	return models.NewRemoteError(g.name, err)
}

// Name is the dependency this guard protects.
func (g *Guard) Name() string {
	return g.name
}

// State reports the breaker state name, e.g. for health endpoints.
func (g *Guard) State() string {
	return g.breaker.GetState()
}
