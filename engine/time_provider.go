package engine

import "time"

// TimeProvider supplies wall-clock readings to the clock and scheduler
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with its monotonic component
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates the default time source
func NewMonotonicTimeProvider() MonotonicTimeProvider {
	return MonotonicTimeProvider{}
}

func (MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
