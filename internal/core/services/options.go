package services

import "time"

// Option configures the shared service base.
type Option func(*BaseService)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *BaseService) {
		b.now = now
	}
}

func applyOptions(b *BaseService, opts []Option) {
	for _, opt := range opts {
		opt(b)
	}
}
