package aggregates

import "time"

// Clock returns the current time
type Clock func() time.Time

// Option configures an aggregate at construction or rehydration
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the time source used to stamp mutations
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
