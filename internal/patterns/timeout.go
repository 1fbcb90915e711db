package patterns

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single persistence request.
const DefaultTimeout = 3 * time.Second

// SlowServiceTimeout bounds generative-language calls, which take seconds.
const SlowServiceTimeout = 20 * time.Second

// WithTimeout derives a bounded context from parent. A non-positive d leaves
// parent unbounded.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
