package platform

import (
	"time"

	"workwell/internal/core/scheduler"
)

// IdleProvider reports the time since the last keyboard or mouse input.
// It satisfies scheduler.IdleChecker.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

var _ scheduler.IdleChecker = IdleProvider(nil)

// NewIdleProvider returns the provider for the current platform. Where
// idle time cannot be read it returns scheduler.ErrIdleUnsupported.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, scheduler.ErrIdleUnsupported
}
